package config

import (
	"fmt"
	"sort"

	"github.com/pleimann/ctlmap/internal/input"
)

// Built-in layout names
const (
	LayoutXTouchMini = "xtouch-mini"
	LayoutGamepad    = "gamepad"
)

var layouts = map[string]func() *Config{
	LayoutXTouchMini: xtouchMini,
	LayoutGamepad:    gamepad,
}

// Layouts returns the names of the built-in layouts
func Layouts() []string {
	names := make([]string, 0, len(layouts))
	for name := range layouts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Layout returns a fresh copy of a built-in layout with defaults applied
func Layout(name string) (*Config, error) {
	build, ok := layouts[name]
	if !ok {
		return nil, fmt.Errorf("unknown layout %q (have %v)", name, Layouts())
	}
	cfg := build()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("layout %s: %w", name, err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

func keys(desc string, spec any) ActionConfig {
	return ActionConfig{Desc: desc, Keys: spec}
}

func chord(names ...any) []any {
	return names
}

func seq(items ...any) []any {
	return items
}

// xtouchMini maps a Behringer X-TOUCH MINI (standard mode, channel 11) to
// photo-culling shortcuts: flags, star ratings and zoom.
func xtouchMini() *Config {
	return &Config{
		Device: DeviceConfig{
			Kind: string(input.KindMIDI),
			Name: "X-TOUCH MINI",
		},
		Buttons: []Button{
			{Control: 0, Name: "push-controller-1", ActionConfig: keys("Delete", "Delete")},
			{Control: 8, Name: "button-1", ActionConfig: keys("Flag Green", seq(chord("Meta_L", "3"), "Right"))},
			{Control: 9, Name: "button-2", ActionConfig: keys("Flag Yellow", seq(chord("Meta_L", "2"), "Right"))},
			{Control: 10, Name: "button-3", ActionConfig: keys("Flag Red", seq(chord("Meta_L", "1"), "Right"))},
			{Control: 11, Name: "button-4", ActionConfig: keys("Clear Flag", seq(chord("Meta_L", "0")))},
			{Control: 12, Name: "button-5", ActionConfig: keys("Toggle Greyscale", map[string]any{"command": []any{"toggle-grayscale.sh"}})},
			{Control: 13, Name: "button-6", ActionConfig: keys("Delete", "Delete")},
			{Control: 14, Name: "button-7", ActionConfig: keys("Escape", "Escape")},
			{Control: 15, Name: "button-8", ActionConfig: keys("Preview", "F3")},
			{Control: 16, Name: "button-9", ActionConfig: keys("One Star", seq(chord("Control_L", "1")))},
			{Control: 17, Name: "button-10", ActionConfig: keys("Two Stars", seq(chord("Control_L", "2")))},
			{Control: 18, Name: "button-11", ActionConfig: keys("Three Stars", seq(chord("Control_L", "3")))},
			{Control: 19, Name: "button-12", ActionConfig: keys("Zero Stars", seq(chord("Control_L", "0")))},
			{Control: 20, Name: "button-13", ActionConfig: ActionConfig{Desc: "Boing", Reinit: true}},
			{Control: 21, Name: "button-22", ActionConfig: keys("Flip Vertical", seq(chord("Control_L", "slash")))},
			{Control: 22, Name: "button-23", ActionConfig: keys("Flip Horizontal", seq(chord("Control_L", "Shift_L", "asterisk")))},
			{Control: 23, Name: "button-24", ActionConfig: keys("Toggle Zoom", seq(chord("Control_L", "period")))},
		},
		Spinners: []Spinner{
			{Control: 1, Name: "spinner-1", Up: keys("Move Right", "Right"), Down: keys("Move Left", "Left")},
			{Control: 2, Name: "spinner-2", Up: keys("Move Up", "Up"), Down: keys("Move Down", "Down")},
			{
				Control: 6, Name: "spinner-6",
				Up:   keys("Rotate Right", seq(chord("Control_L", "Shift_R", "Right"))),
				Down: keys("Rotate Left", seq(chord("Control_L", "Shift_R", "Left"))),
			},
			{
				Control: 7, Name: "spinner-7",
				Up:   keys("Pan Zoom Left", seq(chord("Shift_R", "Left"))),
				Down: keys("Pan Zoom Right", seq(chord("Shift_R", "Right"))),
			},
			{
				Control: 8, Name: "spinner-8",
				Up:   keys("Pan Zoom Up", seq(chord("Shift_R", "Up"))),
				Down: keys("Pan Zoom Down", seq(chord("Shift_R", "Down"))),
			},
		},
		Sliders: []Slider{
			{
				// About six zoom levels over the fader's travel.
				Control: 9, Name: "slider", Delta: 5,
				Up:   keys("Zoom In", seq(chord("Control_L", "equal"))),
				Down: keys("Zoom Out", seq(chord("Control_L", "minus"))),
				Zero: &ActionConfig{Desc: "Fit to Window", Keys: seq(chord("Control_L", "Alt_L", "E"))},
			},
		},
	}
}

// gamepad maps a generic USB gamepad on the joystick interface. Sticks and
// throttles act as switches at their stops. Unassigned controls are kept
// as placeholders so they show up by name in the debug log.
func gamepad() *Config {
	const full = 32767

	return &Config{
		Device: DeviceConfig{
			Kind: string(input.KindJoystick),
			Path: "/dev/input/js0",
		},
		Buttons: []Button{
			{Control: 0, Name: "a", ActionConfig: keys("Flag Green", seq(chord("Meta_L", "3")))},
			{Control: 1, Name: "b", ActionConfig: keys("Flag Red", seq(chord("Meta_L", "1")))},
			{Control: 2, Name: "x", ActionConfig: keys("Clear Flag", seq(chord("Meta_L", "0")))},
			{Control: 3, Name: "y", ActionConfig: keys("Flag Yellow", seq(chord("Meta_L", "2")))},
			{Control: 4, Name: "l-trigger", ActionConfig: keys("Escape", "Escape")},
			{Control: 5, Name: "r-trigger", ActionConfig: keys("Preview", "F3")},
			{Control: 6, Name: "play", ActionConfig: keys("Delete", "Delete")},
			{Control: 7, Name: "l-hat"},
			{Control: 8, Name: "r-hat"},
		},
		Axes: []Axis{
			{Control: 8, Value: full, Name: "dpad-right", ActionConfig: keys("Right", "Right")},
			{Control: 8, Value: -full, Name: "dpad-left", ActionConfig: keys("Left", "Left")},
			{Control: 9, Value: -full, Name: "dpad-up", ActionConfig: keys("Up", "Up")},
			{Control: 9, Value: full, Name: "dpad-down", ActionConfig: keys("Down", "Down")},
			{Control: 7, Value: full, Name: "l-throttle"},
			{Control: 6, Value: full, Name: "r-throttle", ActionConfig: keys("Toggle Zoom", seq(chord("Control_L", "period")))},
			{Control: 5, Value: -full, Name: "r-joystick-up", ActionConfig: keys("Three Stars", seq(chord("Control_L", "3")))},
			{Control: 5, Value: full, Name: "r-joystick-down", ActionConfig: keys("One Star", seq(chord("Control_L", "1")))},
			{Control: 2, Value: -full, Name: "r-joystick-left", ActionConfig: keys("Zero Stars", seq(chord("Control_L", "0")))},
			{Control: 2, Value: full, Name: "r-joystick-right", ActionConfig: keys("Two Stars", seq(chord("Control_L", "2")))},
			{Control: 1, Value: -full, Name: "l-joystick-up", ActionConfig: keys("Pan Zoom", seq(chord("Shift_R", "Up")))},
			{Control: 1, Value: full, Name: "l-joystick-down", ActionConfig: keys("Pan Zoom", seq(chord("Shift_R", "Down")))},
			{Control: 0, Value: -full, Name: "l-joystick-left", ActionConfig: keys("Pan Zoom", seq(chord("Shift_R", "Left")))},
			{Control: 0, Value: full, Name: "l-joystick-right", ActionConfig: keys("Pan Zoom", seq(chord("Shift_R", "Right")))},
		},
	}
}
