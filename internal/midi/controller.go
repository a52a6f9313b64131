package midi

import (
	"fmt"
	"io"
	"time"
)

// Defaults for the Behringer X-TOUCH MINI in standard mode
const (
	DefaultChannel    = 10
	DefaultMidpoint   = 64
	DefaultStrobeStep = 7 * time.Millisecond
)

// ControllerConfig describes the writable parts of a MIDI control surface
type ControllerConfig struct {
	Channel int
	// Knobs are the control numbers of the endless encoders.
	Knobs []int
	// LEDs are the note numbers of the lit buttons, in panel order.
	LEDs       []int
	Midpoint   int
	StrobeStep time.Duration
}

// DefaultControllerConfig returns the X-TOUCH MINI layout: encoders 1-8,
// buttons 8-23.
func DefaultControllerConfig() ControllerConfig {
	cfg := ControllerConfig{
		Channel:    DefaultChannel,
		Midpoint:   DefaultMidpoint,
		StrobeStep: DefaultStrobeStep,
	}
	for i := 1; i <= 8; i++ {
		cfg.Knobs = append(cfg.Knobs, i)
	}
	for n := 8; n <= 23; n++ {
		cfg.LEDs = append(cfg.LEDs, n)
	}
	return cfg
}

// Controller writes control changes and notes back to the device, moving
// encoder rings and lighting buttons.
type Controller struct {
	w     io.Writer
	cfg   ControllerConfig
	sleep func(time.Duration)
}

// NewController creates a controller writing to w
func NewController(w io.Writer, cfg ControllerConfig) *Controller {
	if cfg.Midpoint == 0 {
		cfg.Midpoint = DefaultMidpoint
	}
	return &Controller{
		w:     w,
		cfg:   cfg,
		sleep: time.Sleep,
	}
}

// SetControl moves a control to value
func (c *Controller) SetControl(control, value int) error {
	return c.send(Message{Type: ControlChange, Channel: c.cfg.Channel, Data1: control, Data2: value})
}

// Initialize sweeps the encoder rings and button LEDs up and back down,
// then parks every encoder at the midpoint with all LEDs off. It returns
// the position each encoder was left at.
func (c *Controller) Initialize() (map[int]int, error) {
	for val := 0; val < 127; val += 4 {
		if err := c.strobe(val); err != nil {
			return nil, err
		}
	}
	for val := 128; val > 0; val -= 4 {
		if err := c.strobe(val); err != nil {
			return nil, err
		}
	}

	positions := make(map[int]int, len(c.cfg.Knobs))
	for _, knob := range c.cfg.Knobs {
		if err := c.SetControl(knob, c.cfg.Midpoint); err != nil {
			return nil, err
		}
		positions[knob] = c.cfg.Midpoint
	}
	for _, led := range c.cfg.LEDs {
		if err := c.note(NoteOff, led); err != nil {
			return nil, err
		}
	}
	return positions, nil
}

func (c *Controller) strobe(val int) error {
	for _, knob := range c.cfg.Knobs {
		if err := c.SetControl(knob, val); err != nil {
			return err
		}
	}

	// Every 16 steps light the next LED in from each end, turning the
	// previous one off.
	leds := c.cfg.LEDs
	if idx := val / 16; val%16 == 0 && idx < len(leds) {
		last := len(leds) - 1
		steps := []struct {
			t   MessageType
			idx int
		}{
			{NoteOn, idx},
			{NoteOff, idx - 1},
			{NoteOn, last - idx},
			{NoteOff, last - idx + 1},
		}
		for _, s := range steps {
			if s.idx < 0 || s.idx > last {
				continue
			}
			if err := c.note(s.t, leds[s.idx]); err != nil {
				return err
			}
		}
	}

	c.sleep(c.cfg.StrobeStep)
	return nil
}

func (c *Controller) note(t MessageType, note int) error {
	velocity := 0
	if t == NoteOn {
		velocity = 127
	}
	return c.send(Message{Type: t, Channel: c.cfg.Channel, Data1: note, Data2: velocity})
}

func (c *Controller) send(m Message) error {
	data, err := m.Encode()
	if err != nil {
		return err
	}
	if _, err := c.w.Write(data); err != nil {
		return fmt.Errorf("failed to write %s: %w", m.Type, err)
	}
	return nil
}
