package control

import "fmt"

// Interpreter turns raw spinner and slider samples into semantic directions.
// It owns the last known position of every continuous control it has seen.
// It is not safe for concurrent use; the dispatcher drives it from one goroutine.
type Interpreter struct {
	recenter Recenterer
	state    map[int]int
}

// NewInterpreter creates an interpreter that uses r to wrap spinners around.
// r may be nil when the controller cannot be written to.
func NewInterpreter(r Recenterer) *Interpreter {
	return &Interpreter{
		recenter: r,
		state:    make(map[int]int),
	}
}

// Spinner interprets a sample for a wrap-around rotary control
func (in *Interpreter) Spinner(s Spinner, value int) (Direction, error) {
	prev, ok := in.state[s.Control]
	if !ok {
		prev = s.Midpoint
		if prev == 0 {
			prev = DefaultMidpoint
		}
	}

	dir := None
	switch {
	case value == MinValue:
		// Hit the bottom: wrap to the top so the next turn down still registers.
		dir = Down
		value = MaxValue
		if err := in.setControl(s.Control, value); err != nil {
			return None, err
		}
	case value == MaxValue:
		dir = Up
		value = MinValue
		if err := in.setControl(s.Control, value); err != nil {
			return None, err
		}
	case value < prev:
		dir = Down
	case value > prev:
		dir = Up
	}

	in.state[s.Control] = value
	return dir, nil
}

// Slider interprets a sample for a bounded fader
func (in *Interpreter) Slider(s Slider, value int) Direction {
	if value == MinValue && s.ZeroAction {
		in.state[s.Control] = MinValue
		return Zero
	}

	prev, ok := in.state[s.Control]
	if !ok {
		// No baseline yet; the direction of this sample is unknowable.
		in.state[s.Control] = value
		return None
	}

	if value < prev-s.Delta {
		in.state[s.Control] = value
		return Down
	}
	if value == MaxValue || value > prev+s.Delta {
		in.state[s.Control] = value
		return Up
	}
	return None
}

// Reset records a hardware-reported position for a control, e.g. after the
// controller's knobs were driven back to their midpoint.
func (in *Interpreter) Reset(control, value int) {
	in.state[control] = value
}

// Position returns the stored position for a control
func (in *Interpreter) Position(control int) (int, bool) {
	v, ok := in.state[control]
	return v, ok
}

func (in *Interpreter) setControl(control, value int) error {
	if in.recenter == nil {
		return nil
	}
	if err := in.recenter.SetControl(control, value); err != nil {
		return fmt.Errorf("failed to recenter control %d: %w", control, err)
	}
	return nil
}
