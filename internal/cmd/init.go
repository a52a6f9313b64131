package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/term"

	"github.com/pleimann/ctlmap/internal/config"
	"github.com/pleimann/ctlmap/internal/input"
	"github.com/pleimann/ctlmap/internal/ui"
)

// ErrCancelled is returned when the user backs out of device selection
var ErrCancelled = errors.New("cancelled")

type Init struct {
	Path   string `arg:"" optional:"" default:"ctlmap.yaml" help:"Mapping file to write (.yaml, .yml or .toml)" type:"path"`
	Layout string `short:"l" help:"Built-in layout to start from" default:"xtouch-mini"`
	Target `embed:""`
	Force  bool `help:"Overwrite an existing mapping file instead of updating its device path"`
}

func (i *Init) Run(logger *slog.Logger) error {
	device, layout, err := i.pick()
	if err != nil {
		return err
	}

	if config.Exists(i.Path) && !i.Force {
		if device.Path == "" {
			return fmt.Errorf("%s already exists (use --force to overwrite)", i.Path)
		}
		if err := config.UpdateDevicePath(i.Path, device.Path); err != nil {
			return err
		}
		ui.PrintDeviceUpdated(os.Stdout, i.Path, device.Path)
		return nil
	}

	if err := config.CreateDefaultConfig(i.Path, layout, device); err != nil {
		return err
	}
	logger.Debug("Wrote mapping", "path", i.Path, "layout", layout)
	ui.PrintConfigCreated(os.Stdout, i.Path, layout, device.Path)
	return nil
}

// pick returns the device named on the command line, or asks the user to
// choose one when running interactively
func (i *Init) pick() (input.DeviceInfo, string, error) {
	if i.Device != "" || !term.IsTerminal(int(os.Stdin.Fd())) {
		d := input.DeviceInfo{Path: i.Device}
		if i.Device != "" {
			d.Kind = GuessKind(i.Device)
		}
		if i.Kind != "" {
			k, err := input.ParseDeviceKind(i.Kind)
			if err != nil {
				return input.DeviceInfo{}, "", err
			}
			d.Kind = k
		}
		return d, i.Layout, nil
	}

	devices, err := input.ListDevices()
	if err != nil {
		return input.DeviceInfo{}, "", err
	}
	if len(devices) == 0 {
		return input.DeviceInfo{}, i.Layout, nil
	}

	selected, layout, err := ui.SelectDevice(devices, config.Layouts())
	if err != nil {
		return input.DeviceInfo{}, "", err
	}
	if selected == nil {
		return input.DeviceInfo{}, "", ErrCancelled
	}
	return *selected, layout, nil
}
