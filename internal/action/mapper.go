package action

import (
	"fmt"
	"sort"

	"github.com/pleimann/ctlmap/internal/control"
	"github.com/pleimann/ctlmap/internal/input"
)

// Trigger identifies a discrete mapping entry: the kind of event, the
// control number and the exact value that fires it.
type Trigger struct {
	Kind    input.Kind
	Control int
	Value   int
}

func (t Trigger) String() string {
	return fmt.Sprintf("%s:%d=%d", t.Kind, t.Control, t.Value)
}

// Binding names the physical input an action is attached to
type Binding struct {
	Name   string
	Action Action
}

// ContinuousBinding attaches actions to a spinner or slider. Exactly one of
// Spinner and Slider is set.
type ContinuousBinding struct {
	Name    string
	Spinner *control.Spinner
	Slider  *control.Slider
	Up      Action
	Down    Action
	Zero    *Action
}

// Action returns the action for an interpreted direction, if any
func (b ContinuousBinding) Action(dir control.Direction) (Action, bool) {
	switch dir {
	case control.Up:
		return b.Up, true
	case control.Down:
		return b.Down, true
	case control.Zero:
		if b.Zero != nil {
			return *b.Zero, true
		}
	}
	return Action{}, false
}

// Mapper is the mapping table from raw event identities to actions. It is
// built once at startup and only read afterwards.
type Mapper struct {
	discrete   map[Trigger]Binding
	continuous map[int]ContinuousBinding
}

// NewMapper creates an empty mapping table
func NewMapper() *Mapper {
	return &Mapper{
		discrete:   make(map[Trigger]Binding),
		continuous: make(map[int]ContinuousBinding),
	}
}

// Add registers a discrete binding
func (m *Mapper) Add(t Trigger, b Binding) error {
	if _, exists := m.discrete[t]; exists {
		return fmt.Errorf("duplicate mapping for %s", t)
	}
	m.discrete[t] = b
	return nil
}

// AddSpinner registers a wrap-around rotary control
func (m *Mapper) AddSpinner(name string, s control.Spinner, up, down Action) error {
	if _, exists := m.continuous[s.Control]; exists {
		return fmt.Errorf("duplicate continuous control %d", s.Control)
	}
	m.continuous[s.Control] = ContinuousBinding{
		Name:    name,
		Spinner: &s,
		Up:      up,
		Down:    down,
	}
	return nil
}

// AddSlider registers a bounded fader. zero may be nil.
func (m *Mapper) AddSlider(name string, s control.Slider, up, down Action, zero *Action) error {
	if _, exists := m.continuous[s.Control]; exists {
		return fmt.Errorf("duplicate continuous control %d", s.Control)
	}
	if s.Delta < 0 {
		return fmt.Errorf("slider %d: negative delta %d", s.Control, s.Delta)
	}
	s.ZeroAction = zero != nil
	m.continuous[s.Control] = ContinuousBinding{
		Name:   name,
		Slider: &s,
		Up:     up,
		Down:   down,
		Zero:   zero,
	}
	return nil
}

// Lookup returns the discrete binding for t, if any
func (m *Mapper) Lookup(t Trigger) (Binding, bool) {
	b, ok := m.discrete[t]
	return b, ok
}

// Continuous returns the spinner or slider bound to a control number
func (m *Mapper) Continuous(control int) (ContinuousBinding, bool) {
	b, ok := m.continuous[control]
	return b, ok
}

// Spinners returns the control numbers of all registered spinners, sorted
func (m *Mapper) Spinners() []int {
	var ids []int
	for id, b := range m.continuous {
		if b.Spinner != nil {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)
	return ids
}

// Actions returns every action in the table
func (m *Mapper) Actions() []Action {
	var actions []Action
	for _, b := range m.discrete {
		actions = append(actions, b.Action)
	}
	for _, b := range m.continuous {
		actions = append(actions, b.Up, b.Down)
		if b.Zero != nil {
			actions = append(actions, *b.Zero)
		}
	}
	return actions
}

// Len returns the number of bindings, discrete and continuous
func (m *Mapper) Len() int {
	return len(m.discrete) + len(m.continuous)
}
