package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/pleimann/ctlmap/internal/control"
	"github.com/pleimann/ctlmap/internal/input"
	"github.com/pleimann/ctlmap/internal/midi"
)

type Config struct {
	Device   DeviceConfig `yaml:"device" toml:"device"`
	Timing   TimingConfig `yaml:"timing" toml:"timing"`
	Buttons  []Button     `yaml:"buttons,omitempty" toml:"buttons,omitempty"`
	Axes     []Axis       `yaml:"axes,omitempty" toml:"axes,omitempty"`
	Spinners []Spinner    `yaml:"spinners,omitempty" toml:"spinners,omitempty"`
	Sliders  []Slider     `yaml:"sliders,omitempty" toml:"sliders,omitempty"`
}

type DeviceConfig struct {
	Kind string `yaml:"kind" toml:"kind"`
	Path string `yaml:"path,omitempty" toml:"path,omitempty"`
	// Name selects a raw MIDI device by ALSA card name when Path is empty.
	Name string `yaml:"name,omitempty" toml:"name,omitempty"`
	// Channel is the MIDI channel (0-15), or -1 for all channels.
	Channel  *int  `yaml:"channel,omitempty" toml:"channel,omitempty"`
	Grab     bool  `yaml:"grab,omitempty" toml:"grab,omitempty"`
	SkipInit bool  `yaml:"skip_init,omitempty" toml:"skip_init,omitempty"`
	Knobs    []int `yaml:"knobs,omitempty" toml:"knobs,omitempty"`
	LEDs     []int `yaml:"leds,omitempty" toml:"leds,omitempty"`
}

type TimingConfig struct {
	ChordPressDelayMs   int `yaml:"chord_press_delay_ms" toml:"chord_press_delay_ms"`
	ChordReleaseDelayMs int `yaml:"chord_release_delay_ms" toml:"chord_release_delay_ms"`
	SpinnerMidpoint     int `yaml:"spinner_midpoint" toml:"spinner_midpoint"`
	StrobeStepMs        int `yaml:"strobe_step_ms" toml:"strobe_step_ms"`
}

// ActionConfig is the file form of an action. Keys holds the keyspec in
// its decoded YAML/TOML shape; see ParseKeySpec.
type ActionConfig struct {
	Desc   string `yaml:"desc,omitempty" toml:"desc,omitempty"`
	Keys   any    `yaml:"keys,omitempty" toml:"keys,omitempty"`
	Reinit bool   `yaml:"reinit,omitempty" toml:"reinit,omitempty"`
}

// Trigger values for buttons
const (
	TriggerRelease = "release"
	TriggerPress   = "press"
)

type Button struct {
	Control int    `yaml:"control" toml:"control"`
	Name    string `yaml:"name,omitempty" toml:"name,omitempty"`
	// Trigger is "release" (default) or "press".
	Trigger      string `yaml:"trigger,omitempty" toml:"trigger,omitempty"`
	ActionConfig `yaml:",inline"`
}

type Axis struct {
	Control      int    `yaml:"control" toml:"control"`
	Value        int    `yaml:"value" toml:"value"`
	Name         string `yaml:"name,omitempty" toml:"name,omitempty"`
	ActionConfig `yaml:",inline"`
}

type Spinner struct {
	Control int          `yaml:"control" toml:"control"`
	Name    string       `yaml:"name,omitempty" toml:"name,omitempty"`
	Up      ActionConfig `yaml:"up" toml:"up"`
	Down    ActionConfig `yaml:"down" toml:"down"`
}

type Slider struct {
	Control int           `yaml:"control" toml:"control"`
	Name    string        `yaml:"name,omitempty" toml:"name,omitempty"`
	Delta   int           `yaml:"delta" toml:"delta"`
	Up      ActionConfig  `yaml:"up" toml:"up"`
	Down    ActionConfig  `yaml:"down" toml:"down"`
	Zero    *ActionConfig `yaml:"zero,omitempty" toml:"zero,omitempty"`
}

// Load reads a mapping file. The format follows the extension: .yaml/.yml
// or .toml.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	switch format(path) {
	case "yaml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case "toml":
		if _, err := toml.Decode(string(data), &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

func format(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	case ".toml":
		return "toml"
	}
	return ""
}

func (c *Config) validate() error {
	if c.Device.Kind != "" {
		if _, err := input.ParseDeviceKind(c.Device.Kind); err != nil {
			return fmt.Errorf("device.kind: %w", err)
		}
	}
	if ch := c.Device.Channel; ch != nil && (*ch < midi.AnyChannel || *ch > 15) {
		return fmt.Errorf("device.channel %d out of range", *ch)
	}
	if m := c.Timing.SpinnerMidpoint; m < 0 || m > control.MaxValue {
		return fmt.Errorf("timing.spinner_midpoint %d out of range", m)
	}
	if c.Timing.ChordPressDelayMs < 0 || c.Timing.ChordReleaseDelayMs < 0 || c.Timing.StrobeStepMs < 0 {
		return fmt.Errorf("timing values must not be negative")
	}

	// Trigger identities must be unique
	seen := make(map[string]bool)
	for i, btn := range c.Buttons {
		trigger := btn.Trigger
		if trigger == "" {
			trigger = TriggerRelease
		}
		if trigger != TriggerRelease && trigger != TriggerPress {
			return fmt.Errorf("button %d: unknown trigger %q", btn.Control, btn.Trigger)
		}
		key := fmt.Sprintf("button:%d:%s", btn.Control, trigger)
		if seen[key] {
			return fmt.Errorf("duplicate button mapping: control %d on %s", btn.Control, trigger)
		}
		seen[key] = true
		if err := btn.ActionConfig.check(); err != nil {
			return fmt.Errorf("buttons[%d]: %w", i, err)
		}
	}
	for i, ax := range c.Axes {
		key := fmt.Sprintf("axis:%d:%d", ax.Control, ax.Value)
		if seen[key] {
			return fmt.Errorf("duplicate axis mapping: control %d value %d", ax.Control, ax.Value)
		}
		seen[key] = true
		if err := ax.ActionConfig.check(); err != nil {
			return fmt.Errorf("axes[%d]: %w", i, err)
		}
	}

	// Spinners and sliders share the control-number space
	continuous := make(map[int]bool)
	for i, sp := range c.Spinners {
		if continuous[sp.Control] {
			return fmt.Errorf("duplicate continuous control: %d", sp.Control)
		}
		continuous[sp.Control] = true
		for _, a := range []ActionConfig{sp.Up, sp.Down} {
			if err := a.check(); err != nil {
				return fmt.Errorf("spinners[%d]: %w", i, err)
			}
		}
	}
	for i, sl := range c.Sliders {
		if continuous[sl.Control] {
			return fmt.Errorf("duplicate continuous control: %d", sl.Control)
		}
		continuous[sl.Control] = true
		if sl.Delta < 0 {
			return fmt.Errorf("slider %d: delta must not be negative", sl.Control)
		}
		actions := []ActionConfig{sl.Up, sl.Down}
		if sl.Zero != nil {
			actions = append(actions, *sl.Zero)
		}
		for _, a := range actions {
			if err := a.check(); err != nil {
				return fmt.Errorf("sliders[%d]: %w", i, err)
			}
		}
	}

	return nil
}

func (c *Config) applyDefaults() {
	if c.Device.Kind == "" {
		c.Device.Kind = string(input.KindJoystick)
		if c.Device.Name != "" || len(c.Spinners) > 0 || len(c.Sliders) > 0 {
			c.Device.Kind = string(input.KindMIDI)
		}
	}
	if c.Device.Channel == nil {
		ch := midi.DefaultChannel
		c.Device.Channel = &ch
	}
	if c.Timing.ChordPressDelayMs == 0 {
		c.Timing.ChordPressDelayMs = 10
	}
	if c.Timing.ChordReleaseDelayMs == 0 {
		c.Timing.ChordReleaseDelayMs = 20
	}
	if c.Timing.SpinnerMidpoint == 0 {
		c.Timing.SpinnerMidpoint = control.DefaultMidpoint
	}
	if c.Timing.StrobeStepMs == 0 {
		c.Timing.StrobeStepMs = 7
	}
}

// ChordPressDelay is the offset of a chord's final press
func (t TimingConfig) ChordPressDelay() time.Duration {
	return time.Duration(t.ChordPressDelayMs) * time.Millisecond
}

// ChordReleaseDelay is the offset of each chord release
func (t TimingConfig) ChordReleaseDelay() time.Duration {
	return time.Duration(t.ChordReleaseDelayMs) * time.Millisecond
}

// MIDIChannel returns the configured channel, or the default
func (d DeviceConfig) MIDIChannel() int {
	if d.Channel == nil {
		return midi.DefaultChannel
	}
	return *d.Channel
}

// Controller returns the write-back layout of a MIDI controller. Unset
// knobs default to every spinner control.
func (c *Config) Controller() midi.ControllerConfig {
	cc := midi.DefaultControllerConfig()
	cc.Channel = c.Device.MIDIChannel()
	if cc.Channel == midi.AnyChannel {
		cc.Channel = midi.DefaultChannel
	}
	cc.Midpoint = c.Timing.SpinnerMidpoint
	if c.Timing.StrobeStepMs > 0 {
		cc.StrobeStep = time.Duration(c.Timing.StrobeStepMs) * time.Millisecond
	}

	switch {
	case len(c.Device.Knobs) > 0:
		cc.Knobs = c.Device.Knobs
	case len(c.Spinners) > 0:
		cc.Knobs = nil
		for _, sp := range c.Spinners {
			cc.Knobs = append(cc.Knobs, sp.Control)
		}
	}
	if len(c.Device.LEDs) > 0 {
		cc.LEDs = c.Device.LEDs
	}
	return cc
}

// Save writes cfg to path in the format its extension names
func Save(path string, cfg *Config) error {
	var buf bytes.Buffer
	switch format(path) {
	case "yaml":
		buf.WriteString("# ctlmap mapping\n\n")
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
		enc.Close()
	case "toml":
		buf.WriteString("# ctlmap mapping\n\n")
		if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode config: %w", err)
		}
	default:
		return fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// CreateDefaultConfig writes the named layout to path, pointed at device
func CreateDefaultConfig(path, layout string, device input.DeviceInfo) error {
	cfg, err := Layout(layout)
	if err != nil {
		return err
	}
	if device.Kind != "" {
		cfg.Device.Kind = string(device.Kind)
	}
	if device.Path != "" {
		cfg.Device.Path = device.Path
	}
	if err := Save(path, cfg); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	return nil
}

var devicePathRegex = regexp.MustCompile(`(?m)^(\s*path\s*[:=]\s*).*$`)

// UpdateDevicePath rewrites the device path in a mapping file while
// preserving the rest of the file structure and comments
func UpdateDevicePath(path, devicePath string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	content := string(data)
	if !devicePathRegex.MatchString(content) {
		return fmt.Errorf("%s has no device path to update", path)
	}
	content = devicePathRegex.ReplaceAllString(content, fmt.Sprintf("${1}%q", devicePath))

	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Exists checks if a config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
