package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pleimann/ctlmap/internal/action"
	"github.com/pleimann/ctlmap/internal/control"
	"github.com/pleimann/ctlmap/internal/input"
	ctllog "github.com/pleimann/ctlmap/internal/log"
)

// State is the dispatcher's lifecycle state
type State int

const (
	Connecting State = iota
	Listening
	Terminating
)

func (s State) String() string {
	switch s {
	case Connecting:
		return "connecting"
	case Listening:
		return "listening"
	case Terminating:
		return "terminating"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// Executor runs mapped actions to completion
type Executor interface {
	Execute(a action.Action) error
}

// Servicer is an output connection that must be drained periodically. The
// dispatcher calls Drain whenever Pending fires.
type Servicer interface {
	Pending() <-chan struct{}
	Drain() error
}

// Config holds the dispatcher's collaborators
type Config struct {
	Sources     []input.Source
	Mapper      *action.Mapper
	Interpreter *control.Interpreter
	Executor    Executor
	// Servicer is optional.
	Servicer Servicer
	// Startup runs once before listening, e.g. to initialize controller
	// LEDs and encoder rings. Optional.
	Startup action.Reinitializer
	Logger  *slog.Logger
}

// Dispatcher reads events from every source and runs the mapped actions.
// Events are handled one at a time on the goroutine that called Run.
type Dispatcher struct {
	sources  []input.Source
	mapper   *action.Mapper
	interp   *control.Interpreter
	executor Executor
	servicer Servicer
	startup  action.Reinitializer
	logger   *slog.Logger

	state State
}

type sourceEvent struct {
	source input.Source
	event  input.Event
	err    error
}

// New creates a dispatcher in the Connecting state
func New(cfg Config) (*Dispatcher, error) {
	if len(cfg.Sources) == 0 {
		return nil, errors.New("no input sources")
	}
	if cfg.Mapper == nil {
		return nil, errors.New("no mapping table")
	}
	if cfg.Executor == nil {
		return nil, errors.New("no executor")
	}

	d := &Dispatcher{
		sources:  cfg.Sources,
		mapper:   cfg.Mapper,
		interp:   cfg.Interpreter,
		executor: cfg.Executor,
		servicer: cfg.Servicer,
		startup:  cfg.Startup,
		logger:   cfg.Logger,
		state:    Connecting,
	}
	if d.interp == nil {
		d.interp = control.NewInterpreter(nil)
	}
	if d.logger == nil {
		d.logger = slog.New(slog.DiscardHandler)
	}
	return d, nil
}

// State returns the current lifecycle state
func (d *Dispatcher) State() State {
	return d.state
}

// Run listens until a source disconnects, ctx is cancelled or an action
// fails fatally. Disconnection and cancellation return nil. Sources are
// closed before Run returns.
func (d *Dispatcher) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer func() {
		d.setState(Terminating)
		cancel()
		// Closing unblocks the readers; they exit without waiting on us.
		for _, src := range d.sources {
			src.Close()
		}
	}()

	if d.startup != nil {
		if err := d.startup.Reinitialize(); err != nil {
			return fmt.Errorf("failed to initialize controller: %w", err)
		}
	}

	events := make(chan sourceEvent)
	for _, src := range d.sources {
		go readEvents(ctx, src, events)
	}

	var pending <-chan struct{}
	if d.servicer != nil {
		pending = d.servicer.Pending()
	}

	d.setState(Listening)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("Shutting down")
			return nil

		case <-pending:
			if err := d.servicer.Drain(); err != nil {
				return fmt.Errorf("output connection failed: %w", err)
			}

		case se := <-events:
			if se.err != nil {
				if input.IsDisconnect(se.err) {
					d.logger.Info("Device disconnected", "device", se.source.Name())
					return nil
				}
				return se.err
			}
			d.logger.Log(ctx, ctllog.LevelTrace, "Event", "device", se.source.Name(), "event", se.event.String())
			if err := d.Handle(se.event); err != nil {
				return err
			}
		}
	}
}

// Handle routes one event through the mapping table. Errors are fatal.
func (d *Dispatcher) Handle(ev input.Event) error {
	if ev.Kind == input.Axis {
		if b, ok := d.mapper.Continuous(ev.Control); ok {
			return d.handleContinuous(b, ev)
		}
	}

	trigger := action.Trigger{Kind: ev.Kind, Control: ev.Control, Value: ev.Value}
	b, ok := d.mapper.Lookup(trigger)
	if !ok {
		if worthLogging(ev) {
			d.logger.Debug("Unmapped event", "event", ev.String())
		}
		return nil
	}

	d.logger.Debug("Mapped event", "event", ev.String(), "binding", b.Name)
	if err := d.executor.Execute(b.Action); err != nil {
		return fmt.Errorf("%s: %w", b.Name, err)
	}
	return nil
}

func (d *Dispatcher) handleContinuous(b action.ContinuousBinding, ev input.Event) error {
	var dir control.Direction
	switch {
	case b.Spinner != nil:
		var err error
		dir, err = d.interp.Spinner(*b.Spinner, ev.Value)
		if err != nil {
			return fmt.Errorf("%s: %w", b.Name, err)
		}
	case b.Slider != nil:
		dir = d.interp.Slider(*b.Slider, ev.Value)
	default:
		return fmt.Errorf("%s: binding has neither spinner nor slider", b.Name)
	}

	a, ok := b.Action(dir)
	if !ok {
		return nil
	}

	d.logger.Debug("Continuous control", "binding", b.Name, "value", ev.Value, "direction", dir.String())
	if err := d.executor.Execute(a); err != nil {
		return fmt.Errorf("%s %s: %w", b.Name, dir, err)
	}
	return nil
}

func (d *Dispatcher) setState(s State) {
	if d.state == s {
		return
	}
	d.logger.Debug("Dispatcher state", "from", d.state.String(), "to", s.String())
	d.state = s
}

// readEvents reads from src until it fails, forwarding every event and the
// final error to out
func readEvents(ctx context.Context, src input.Source, out chan<- sourceEvent) {
	for {
		ev, err := src.ReadEvent()
		select {
		case out <- sourceEvent{source: src, event: ev, err: err}:
		case <-ctx.Done():
			return
		}
		if err != nil {
			return
		}
	}
}

// worthLogging filters analog noise out of the unmapped event log. Buttons
// and 7-bit controls always qualify; wide axes only at rest or at an extreme.
func worthLogging(ev input.Event) bool {
	if ev.Kind != input.Axis {
		return true
	}
	v := ev.Value
	if v < 0 {
		v = -v
	}
	return v <= control.MaxValue || v == 32767
}
