package input

import (
	"fmt"

	evdev "github.com/gvalkov/golang-evdev"
)

// key event values reported by evdev
const (
	evdevKeyUp   = 0
	evdevKeyDown = 1
)

// EvdevSource reads a generic input device (/dev/input/eventN). Key and
// button codes become button events; absolute axes become axis events.
// Auto-repeat, relative motion and sync events are dropped.
type EvdevSource struct {
	dev     *evdev.InputDevice
	grabbed bool
}

// OpenEvdev opens an event device. With grab set, the device's own events
// are withheld from every other reader, including the display server.
func OpenEvdev(path string, grab bool) (*EvdevSource, error) {
	dev, err := evdev.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input device %s: %w", path, err)
	}

	s := &EvdevSource{dev: dev}
	if grab {
		if err := dev.Grab(); err != nil {
			dev.File.Close()
			return nil, fmt.Errorf("failed to grab input device %s: %w", path, err)
		}
		s.grabbed = true
	}
	return s, nil
}

func (s *EvdevSource) Name() string {
	if s.dev.Name != "" {
		return s.dev.Name
	}
	return s.dev.Fn
}

// ReadEvent returns the next key or absolute axis event
func (s *EvdevSource) ReadEvent() (Event, error) {
	for {
		ev, err := s.dev.ReadOne()
		if err != nil {
			return Event{}, classify(s.dev.Fn, err)
		}
		if out, ok := evdevEvent(ev.Type, ev.Code, ev.Value); ok {
			out.Time = uint32(int64(ev.Time.Sec)*1000 + int64(ev.Time.Usec)/1000)
			return out, nil
		}
	}
}

func (s *EvdevSource) Close() error {
	if s.grabbed {
		_ = s.dev.Release()
	}
	return s.dev.File.Close()
}

func evdevEvent(typ, code uint16, value int32) (Event, bool) {
	switch typ {
	case evdev.EV_KEY:
		switch value {
		case evdevKeyDown:
			return Event{Kind: Button, Control: int(code), Value: Pressed}, true
		case evdevKeyUp:
			return Event{Kind: Button, Control: int(code), Value: Released}, true
		}
	case evdev.EV_ABS:
		return Event{Kind: Axis, Control: int(code), Value: int(value)}, true
	}
	return Event{}, false
}
