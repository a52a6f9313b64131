package input

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"
)

// Linux joystick API event types (linux/joystick.h)
const (
	jsEventButton byte = 0x01
	jsEventAxis   byte = 0x02
	jsEventInit   byte = 0x80
)

// JoystickEventSize is the size of one js_event record
const JoystickEventSize = 8

// jsiocgname is JSIOCGNAME(128)
const jsiocgname = 0x80006a13 + (128 << 16)

// jsEvent mirrors struct js_event
type jsEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

// ParseJoystickEvent decodes one js_event record. ok is false for records
// that carry no event for us: the synthetic initial-state burst the kernel
// sends on open, and unknown types.
//
// Layout (little-endian):
//
//	Byte 0-3: timestamp in ms
//	Byte 4-5: value (signed)
//	Byte 6:   type (0x01 button, 0x02 axis, |0x80 initial state)
//	Byte 7:   control number
func ParseJoystickEvent(data []byte) (ev Event, ok bool, err error) {
	if len(data) < JoystickEventSize {
		return Event{}, false, fmt.Errorf("joystick event too short: %d bytes", len(data))
	}

	var raw jsEvent
	if err := binary.Read(bytes.NewReader(data[:JoystickEventSize]), binary.LittleEndian, &raw); err != nil {
		return Event{}, false, err
	}
	return raw.event()
}

func (e jsEvent) event() (Event, bool, error) {
	if e.Type&jsEventInit != 0 {
		return Event{}, false, nil
	}

	ev := Event{
		Control: int(e.Number),
		Value:   int(e.Value),
		Time:    e.Time,
	}
	switch e.Type {
	case jsEventButton:
		ev.Kind = Button
		if ev.Value != Released {
			ev.Value = Pressed
		}
	case jsEventAxis:
		ev.Kind = Axis
	default:
		return Event{}, false, nil
	}
	return ev, true, nil
}

// JoystickSource reads the Linux joystick interface (/dev/input/jsN)
type JoystickSource struct {
	path string
	name string
	file io.ReadCloser
}

// OpenJoystick opens a joystick device node
func OpenJoystick(path string) (*JoystickSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open joystick %s: %w", path, err)
	}

	name, err := joystickName(f)
	if err != nil || name == "" {
		name = path
	}

	return &JoystickSource{
		path: path,
		name: name,
		file: f,
	}, nil
}

// NewJoystickSource reads js_event records from r
func NewJoystickSource(name string, r io.ReadCloser) *JoystickSource {
	return &JoystickSource{path: name, name: name, file: r}
}

func (j *JoystickSource) Name() string {
	return j.name
}

// ReadEvent reads records until one carries an event
func (j *JoystickSource) ReadEvent() (Event, error) {
	for {
		var raw jsEvent
		if err := binary.Read(j.file, binary.LittleEndian, &raw); err != nil {
			return Event{}, classify(j.path, err)
		}

		ev, ok, err := raw.event()
		if err != nil {
			return Event{}, err
		}
		if ok {
			return ev, nil
		}
	}
}

func (j *JoystickSource) Close() error {
	return j.file.Close()
}

// JoystickName asks the driver for a joystick's product name
func JoystickName(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return joystickName(f)
}

func joystickName(f *os.File) (string, error) {
	buf := make([]byte, 128)
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, f.Fd(), uintptr(jsiocgname), uintptr(unsafe.Pointer(&buf[0])))
	if errno != 0 {
		return "", fmt.Errorf("JSIOCGNAME: %w", errno)
	}
	if i := bytes.IndexByte(buf, 0); i >= 0 {
		buf = buf[:i]
	}
	return string(buf), nil
}
