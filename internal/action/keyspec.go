package action

import (
	"fmt"
	"strings"
	"time"
)

// KeySpec is a declarative description of output: a key, a chord, a pause,
// an external command or an ordered sequence of those.
//
// The set of implementations is closed; the executor rejects anything else.
type KeySpec interface {
	fmt.Stringer
	keySpec()
}

// Key taps a single key: press then release
type Key struct {
	Name string
}

// Chord presses every key in order, then releases them in reverse order
type Chord struct {
	Names []string
}

// Sleep pauses without emitting anything
type Sleep struct {
	Duration time.Duration
}

// Command runs an external program and waits for it to exit
type Command struct {
	Args []string
}

// Sequence runs its children one after another
type Sequence struct {
	Specs []KeySpec
}

func (Key) keySpec()      {}
func (Chord) keySpec()    {}
func (Sleep) keySpec()    {}
func (Command) keySpec()  {}
func (Sequence) keySpec() {}

func (k Key) String() string {
	return k.Name
}

func (c Chord) String() string {
	return "(" + strings.Join(c.Names, "+") + ")"
}

func (s Sleep) String() string {
	return fmt.Sprintf("sleep(%dms)", s.Duration.Milliseconds())
}

func (c Command) String() string {
	return "cmd" + fmt.Sprint(c.Args)
}

func (s Sequence) String() string {
	parts := make([]string, len(s.Specs))
	for i, spec := range s.Specs {
		parts[i] = spec.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Keys is shorthand for a Sequence of single key taps
func Keys(names ...string) Sequence {
	specs := make([]KeySpec, len(names))
	for i, n := range names {
		specs[i] = Key{Name: n}
	}
	return Sequence{Specs: specs}
}

// Seq is shorthand for a Sequence
func Seq(specs ...KeySpec) Sequence {
	return Sequence{Specs: specs}
}

// NewChord is shorthand for a Chord
func NewChord(names ...string) Chord {
	return Chord{Names: names}
}

// Millis is shorthand for a Sleep of ms milliseconds
func Millis(ms int) Sleep {
	return Sleep{Duration: time.Duration(ms) * time.Millisecond}
}

// Kind distinguishes ordinary actions from the hardware reinitialization marker
type Kind int

const (
	KindKeys Kind = iota
	KindReinit
)

// Action is an immutable, described unit of output owned by the mapping table
type Action struct {
	Kind Kind
	Spec KeySpec // nil for placeholder bindings
	Desc string
}

// New creates an action that executes spec
func New(spec KeySpec, desc string) Action {
	return Action{Kind: KindKeys, Spec: spec, Desc: desc}
}

// Reinit creates the marker action that re-runs controller initialization
func Reinit(desc string) Action {
	return Action{Kind: KindReinit, Desc: desc}
}

// Walk calls fn for every node of spec in document order
func Walk(spec KeySpec, fn func(KeySpec) error) error {
	if spec == nil {
		return nil
	}
	if err := fn(spec); err != nil {
		return err
	}
	if seq, ok := spec.(Sequence); ok {
		for _, child := range seq.Specs {
			if err := Walk(child, fn); err != nil {
				return err
			}
		}
	}
	return nil
}
