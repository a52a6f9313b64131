package input

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/sys/unix"
)

// Kind tags what sort of control produced an event
type Kind int

const (
	// Button is an on/off control; Value is Pressed or Released.
	Button Kind = iota + 1
	// Axis is a positional control; Value is the raw position.
	Axis
)

func (k Kind) String() string {
	switch k {
	case Button:
		return "button"
	case Axis:
		return "axis"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Button values
const (
	Released = 0
	Pressed  = 1
)

// Event is the canonical form of one hardware occurrence, whatever device
// it came from. Joystick axes report signed 16-bit values, MIDI controls 0-127.
type Event struct {
	Kind    Kind
	Control int
	Value   int
	// Time is the device timestamp in milliseconds, when the device has one.
	Time uint32
}

// IsPressed reports whether a button event is a press
func (e Event) IsPressed() bool {
	return e.Kind == Button && e.Value != Released
}

func (e Event) String() string {
	if e.Kind == Button {
		state := "release"
		if e.IsPressed() {
			state = "press"
		}
		return fmt.Sprintf("button %d %s", e.Control, state)
	}
	return fmt.Sprintf("%s %d value %d", e.Kind, e.Control, e.Value)
}

// Source produces canonical events from one input device
type Source interface {
	// Name identifies the device in logs.
	Name() string
	// ReadEvent blocks until the next event. It returns an error wrapping
	// ErrDisconnected when the device goes away.
	ReadEvent() (Event, error)
	Close() error
}

// ErrDisconnected reports that an input device was removed or closed
var ErrDisconnected = errors.New("device disconnected")

// IsDisconnect reports whether err means the device is gone: end of stream,
// or the kernel saying the device no longer exists.
func IsDisconnect(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, ErrDisconnected),
		errors.Is(err, io.EOF),
		errors.Is(err, io.ErrUnexpectedEOF),
		errors.Is(err, unix.ENODEV):
		return true
	}
	return false
}

// classify wraps read errors that mean removal so callers can test for
// ErrDisconnected alone.
func classify(name string, err error) error {
	if IsDisconnect(err) && !errors.Is(err, ErrDisconnected) {
		return fmt.Errorf("%s: %w: %v", name, ErrDisconnected, err)
	}
	return fmt.Errorf("%s: read error: %w", name, err)
}
