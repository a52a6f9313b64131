package cmd

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/pleimann/ctlmap/internal/config"
	"github.com/pleimann/ctlmap/internal/input"
	"github.com/pleimann/ctlmap/internal/ui"
)

// CLI is the root command line
type CLI struct {
	Log     LogFlags    `embed:"" prefix:"log-"`
	Debug   bool        `short:"d" help:"Shorthand for --log-level=debug"`
	Version VersionFlag `short:"v" help:"Print version and exit"`

	Run     Run     `cmd:"" default:"withargs" help:"Map controller events to keystrokes (default)"`
	Devices Devices `cmd:"" help:"List connected controllers"`
	Init    Init    `cmd:"" help:"Write a mapping file for a device"`
	Check   Check   `cmd:"" help:"Resolve every key in a mapping against the X display"`
}

// VersionFlag prints the styled version banner and exits
type VersionFlag bool

func (v VersionFlag) BeforeApply(app *kong.Kong, vars kong.Vars) error {
	ui.PrintVersion(app.Stdout, vars["version"])
	app.Exit(0)
	return nil
}

// LogFlags configure the process logger
type LogFlags struct {
	Level string `help:"Log level (trace, debug, info, warn, error)" default:"info" env:"CTLMAP_LOG_LEVEL"`
	File  string `help:"Also write logs to this file" type:"path" env:"CTLMAP_LOG_FILE"`
}

// LogLevel returns the effective level name
func (c *CLI) LogLevel() string {
	if c.Debug && !strings.EqualFold(c.Log.Level, "trace") {
		return "debug"
	}
	return c.Log.Level
}

// Mapping selects the mapping table: a file, or a built-in layout
type Mapping struct {
	Config string `short:"c" help:"Mapping file (.yaml, .yml or .toml)" type:"path"`
	Layout string `short:"l" help:"Built-in layout when no mapping file is given" default:"xtouch-mini"`
}

// Load reads the mapping file, or builds the layout. The returned string
// names where the mapping came from.
func (m Mapping) Load() (*config.Config, string, error) {
	if m.Config != "" {
		cfg, err := config.Load(m.Config)
		if err != nil {
			return nil, "", err
		}
		return cfg, m.Config, nil
	}
	cfg, err := config.Layout(m.Layout)
	if err != nil {
		return nil, "", err
	}
	return cfg, "layout " + m.Layout, nil
}

// Target overrides the device section of a mapping
type Target struct {
	Device string `help:"Device node, overriding the mapping's device path" type:"path"`
	Kind   string `help:"Device kind (joystick, midi, evdev), guessed from --device when unset"`
}

// Apply writes the overrides into cfg
func (t Target) Apply(cfg *config.Config) error {
	if t.Kind != "" {
		k, err := input.ParseDeviceKind(t.Kind)
		if err != nil {
			return err
		}
		cfg.Device.Kind = string(k)
	} else if t.Device != "" {
		cfg.Device.Kind = string(GuessKind(t.Device))
	}
	if t.Device != "" {
		cfg.Device.Path = t.Device
	}
	return nil
}

// GuessKind infers the device kind from a device node path
func GuessKind(path string) input.DeviceKind {
	switch {
	case strings.Contains(path, "/snd/midi"), strings.Contains(path, "midiC"):
		return input.KindMIDI
	case strings.Contains(path, "/event"), strings.Contains(path, "-event-"):
		return input.KindEvdev
	}
	return input.KindJoystick
}

// DevicePath resolves the node to open. Raw MIDI devices may be selected
// by card name instead of path.
func DevicePath(d config.DeviceConfig) (string, error) {
	if d.Path != "" {
		return d.Path, nil
	}
	if d.Kind == string(input.KindMIDI) && d.Name != "" {
		return input.FindMIDI(d.Name)
	}
	return "", fmt.Errorf("no device path configured for %s device", d.Kind)
}
