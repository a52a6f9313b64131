package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pleimann/ctlmap/internal/action"
	"github.com/pleimann/ctlmap/internal/config"
	"github.com/pleimann/ctlmap/internal/control"
	"github.com/pleimann/ctlmap/internal/dispatch"
	"github.com/pleimann/ctlmap/internal/input"
	"github.com/pleimann/ctlmap/internal/midi"
	"github.com/pleimann/ctlmap/internal/xkeys"
)

type Run struct {
	Mapping `embed:""`
	Target  `embed:""`

	Display     string        `help:"X display to send keystrokes to" env:"DISPLAY"`
	DryRun      bool          `short:"n" help:"Log actions without sending keystrokes"`
	Wait        bool          `short:"w" help:"Wait for the device to appear"`
	WaitTimeout time.Duration `help:"Give up waiting after this long (0 waits forever)" default:"0s"`
}

// Run is called by Kong when the run command is executed.
func (r *Run) Run(logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return r.Start(ctx, logger)
}

// Start maps events until the device disconnects, ctx is cancelled or an
// action fails.
func (r *Run) Start(ctx context.Context, logger *slog.Logger) error {
	cfg, origin, err := r.Mapping.Load()
	if err != nil {
		return err
	}
	if err := r.Target.Apply(cfg); err != nil {
		return err
	}
	table, err := cfg.Table()
	if err != nil {
		return fmt.Errorf("invalid mapping: %w", err)
	}
	logger.Debug("Loaded mapping", "from", origin, "bindings", table.Len())

	path, err := DevicePath(cfg.Device)
	if err != nil {
		return err
	}

	if r.Wait {
		if err := r.waitForDevice(ctx, logger, path); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}

	src, ctrl, err := openSource(cfg, path)
	if err != nil {
		return err
	}
	defer src.Close()

	sink, err := xkeys.Open(r.Display, logger)
	if err != nil {
		return err
	}
	defer sink.Close()

	var rec control.Recenterer
	if ctrl != nil {
		rec = ctrl
	}
	interp := control.NewInterpreter(rec)

	opts := []action.Option{
		action.WithDryRun(r.DryRun),
		action.WithLogger(logger),
		action.WithChordDelays(cfg.Timing.ChordPressDelay(), cfg.Timing.ChordReleaseDelay()),
	}
	var reset *dispatch.HardwareReset
	if ctrl != nil {
		reset = &dispatch.HardwareReset{Device: ctrl, Interpreter: interp, Logger: logger}
		opts = append(opts, action.WithReinitializer(reset))
	}
	exec := action.NewExecutor(sink, opts...)

	if problems := CheckTable(exec.Resolver(), table); len(problems) > 0 {
		p := problems[0]
		return fmt.Errorf("invalid mapping: %s: %w", p.Binding, p.Err)
	}

	dcfg := dispatch.Config{
		Sources:     []input.Source{src},
		Mapper:      table,
		Interpreter: interp,
		Executor:    exec,
		Servicer:    sink,
		Logger:      logger,
	}
	if reset != nil && !cfg.Device.SkipInit {
		dcfg.Startup = reset
	}
	d, err := dispatch.New(dcfg)
	if err != nil {
		return err
	}

	logger.Info("Listening", "device", path, "kind", cfg.Device.Kind, "bindings", table.Len(), "dry_run", r.DryRun)
	return d.Run(ctx)
}

func (r *Run) waitForDevice(ctx context.Context, logger *slog.Logger, path string) error {
	if r.WaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.WaitTimeout)
		defer cancel()
	}

	logger.Info("Waiting for device", "device", path)
	err := input.WaitForDevice(ctx, path)
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("device %s did not appear within %s", path, r.WaitTimeout)
	}
	return err
}

// openSource opens the configured device. MIDI devices also return the
// controller used to write encoder positions and LEDs back.
func openSource(cfg *config.Config, path string) (input.Source, *midi.Controller, error) {
	switch input.DeviceKind(cfg.Device.Kind) {
	case input.KindMIDI:
		src, err := input.OpenMIDI(path, cfg.Device.MIDIChannel())
		if err != nil {
			return nil, nil, err
		}
		return src, midi.NewController(src, cfg.Controller()), nil
	case input.KindEvdev:
		src, err := input.OpenEvdev(path, cfg.Device.Grab)
		if err != nil {
			return nil, nil, err
		}
		return src, nil, nil
	default:
		src, err := input.OpenJoystick(path)
		if err != nil {
			return nil, nil, err
		}
		return src, nil, nil
	}
}
