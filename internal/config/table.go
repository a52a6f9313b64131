package config

import (
	"fmt"

	"github.com/pleimann/ctlmap/internal/action"
	"github.com/pleimann/ctlmap/internal/control"
	"github.com/pleimann/ctlmap/internal/input"
)

// Table builds the mapping table described by the config
func (c *Config) Table() (*action.Mapper, error) {
	m := action.NewMapper()

	for _, btn := range c.Buttons {
		a, err := btn.Action()
		if err != nil {
			return nil, fmt.Errorf("button %d: %w", btn.Control, err)
		}
		value := input.Released
		if btn.Trigger == TriggerPress {
			value = input.Pressed
		}
		t := action.Trigger{Kind: input.Button, Control: btn.Control, Value: value}
		if err := m.Add(t, action.Binding{Name: bindingName(btn.Name, "button", btn.Control), Action: a}); err != nil {
			return nil, err
		}
	}

	for _, ax := range c.Axes {
		a, err := ax.Action()
		if err != nil {
			return nil, fmt.Errorf("axis %d: %w", ax.Control, err)
		}
		t := action.Trigger{Kind: input.Axis, Control: ax.Control, Value: ax.Value}
		if err := m.Add(t, action.Binding{Name: bindingName(ax.Name, "axis", ax.Control), Action: a}); err != nil {
			return nil, err
		}
	}

	for _, sp := range c.Spinners {
		up, down, err := actionPair(sp.Up, sp.Down)
		if err != nil {
			return nil, fmt.Errorf("spinner %d: %w", sp.Control, err)
		}
		s := control.Spinner{Control: sp.Control, Midpoint: c.Timing.SpinnerMidpoint}
		if err := m.AddSpinner(bindingName(sp.Name, "spinner", sp.Control), s, up, down); err != nil {
			return nil, err
		}
	}

	for _, sl := range c.Sliders {
		up, down, err := actionPair(sl.Up, sl.Down)
		if err != nil {
			return nil, fmt.Errorf("slider %d: %w", sl.Control, err)
		}
		var zero *action.Action
		if sl.Zero != nil {
			z, err := sl.Zero.Action()
			if err != nil {
				return nil, fmt.Errorf("slider %d: %w", sl.Control, err)
			}
			zero = &z
		}
		s := control.Slider{Control: sl.Control, Delta: sl.Delta}
		if err := m.AddSlider(bindingName(sl.Name, "slider", sl.Control), s, up, down, zero); err != nil {
			return nil, err
		}
	}

	return m, nil
}

func actionPair(upCfg, downCfg ActionConfig) (up, down action.Action, err error) {
	if up, err = upCfg.Action(); err != nil {
		return
	}
	down, err = downCfg.Action()
	return
}

func bindingName(name, kind string, control int) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("%s-%d", kind, control)
}
