package action

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"time"
)

// ErrUnsupportedKeySpec is returned for keyspec values the executor cannot run
var ErrUnsupportedKeySpec = errors.New("unsupported keyspec")

// Default timestamp offsets used when emitting a chord
const (
	DefaultChordPressDelay   = 10 * time.Millisecond
	DefaultChordReleaseDelay = 20 * time.Millisecond
)

// KeySink is the interface for emitting synthetic key events
type KeySink interface {
	KeycodeLookup
	// SendKey queues a press or release. delay is the offset from the
	// previously queued event at which the receiver should see this one.
	SendKey(code Keycode, press bool, delay time.Duration) error
	// Flush delivers everything queued so far.
	Flush() error
}

// Reinitializer re-runs the controller's hardware initialization
type Reinitializer interface {
	Reinitialize() error
}

// Executor interprets actions and keyspecs, one step at a time, in order.
// Every call blocks until all of its output, pauses and commands are done.
type Executor struct {
	sink     KeySink
	resolver *Resolver
	runner   CommandRunner
	reinit   Reinitializer
	logger   *slog.Logger
	sleep    func(time.Duration)

	dryRun       bool
	pressDelay   time.Duration
	releaseDelay time.Duration
}

// Option configures an Executor
type Option func(*Executor)

// WithDryRun suppresses key emission. Keys are still resolved, and pauses,
// commands and reinitialization still happen.
func WithDryRun(dryRun bool) Option {
	return func(e *Executor) { e.dryRun = dryRun }
}

// WithRunner sets how Command keyspecs are run
func WithRunner(r CommandRunner) Option {
	return func(e *Executor) { e.runner = r }
}

// WithReinitializer sets the handler for reinitialization actions
func WithReinitializer(r Reinitializer) Option {
	return func(e *Executor) { e.reinit = r }
}

// WithLogger sets the executor's logger
func WithLogger(l *slog.Logger) Option {
	return func(e *Executor) { e.logger = l }
}

// WithChordDelays overrides the chord timestamp offsets
func WithChordDelays(press, release time.Duration) Option {
	return func(e *Executor) {
		e.pressDelay = press
		e.releaseDelay = release
	}
}

// NewExecutor creates a new action executor writing to sink
func NewExecutor(sink KeySink, opts ...Option) *Executor {
	e := &Executor{
		sink:         sink,
		resolver:     NewResolver(sink),
		runner:       ExecRunner{},
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		sleep:        time.Sleep,
		pressDelay:   DefaultChordPressDelay,
		releaseDelay: DefaultChordReleaseDelay,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolver returns the executor's key name resolver
func (e *Executor) Resolver() *Resolver {
	return e.resolver
}

// Execute runs an action to completion
func (e *Executor) Execute(a Action) error {
	switch a.Kind {
	case KindReinit:
		e.logger.Info("Action", "desc", a.Desc, "keyspec", "reinitialize")
		if e.reinit == nil {
			return nil
		}
		return e.reinit.Reinitialize()
	case KindKeys:
		if a.Spec == nil {
			return nil
		}
		e.logger.Info("Action", "desc", a.Desc, "keyspec", a.Spec.String())
		return e.Run(a.Spec)
	default:
		return fmt.Errorf("%w: action kind %d", ErrUnsupportedKeySpec, a.Kind)
	}
}

// Run executes a keyspec tree left to right
func (e *Executor) Run(spec KeySpec) error {
	switch s := spec.(type) {
	case Key:
		return e.sendKey(s.Name)
	case Chord:
		return e.sendChord(s.Names)
	case Sleep:
		if s.Duration < 0 {
			return fmt.Errorf("%w: negative sleep %s", ErrUnsupportedKeySpec, s.Duration)
		}
		e.sleep(s.Duration)
		return nil
	case Command:
		e.runCommand(s.Args)
		return nil
	case Sequence:
		for _, child := range s.Specs {
			if err := e.Run(child); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedKeySpec, spec)
	}
}

func (e *Executor) sendKey(name string) error {
	e.logger.Debug("Sending key", "key", name)
	code, err := e.resolver.Resolve(name)
	if err != nil {
		return err
	}
	if e.dryRun {
		return nil
	}

	if err := e.sink.SendKey(code, true, 0); err != nil {
		return fmt.Errorf("failed to press %q: %w", name, err)
	}
	if err := e.sink.SendKey(code, false, 0); err != nil {
		return fmt.Errorf("failed to release %q: %w", name, err)
	}
	return e.flush()
}

func (e *Executor) sendChord(names []string) error {
	e.logger.Debug("Sending chord", "keys", names)
	if len(names) == 0 {
		return fmt.Errorf("%w: empty chord", ErrUnsupportedKeySpec)
	}

	codes := make([]Keycode, len(names))
	for i, name := range names {
		code, err := e.resolver.Resolve(name)
		if err != nil {
			return err
		}
		codes[i] = code
	}
	if e.dryRun {
		return nil
	}

	// Modifiers go down together, the final key slightly later, and the
	// releases after that, so the receiver sees one held chord.
	last := len(codes) - 1
	for i, code := range codes[:last] {
		if err := e.sink.SendKey(code, true, 0); err != nil {
			return fmt.Errorf("failed to press %q: %w", names[i], err)
		}
	}
	if err := e.sink.SendKey(codes[last], true, e.pressDelay); err != nil {
		return fmt.Errorf("failed to press %q: %w", names[last], err)
	}
	for i := last; i >= 0; i-- {
		if err := e.sink.SendKey(codes[i], false, e.releaseDelay); err != nil {
			return fmt.Errorf("failed to release %q: %w", names[i], err)
		}
	}
	return e.flush()
}

func (e *Executor) runCommand(args []string) {
	e.logger.Debug("Running command", "args", args)
	err := e.runner.Run(args)
	if err == nil {
		return
	}

	name := ""
	if len(args) > 0 {
		name = args[0]
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		e.logger.Warn("Command failed", "command", name, "exit_code", exitErr.ExitCode())
		return
	}
	e.logger.Warn("Command failed", "command", name, "error", err)
}

func (e *Executor) flush() error {
	if err := e.sink.Flush(); err != nil {
		return fmt.Errorf("failed to flush key events: %w", err)
	}
	return nil
}
