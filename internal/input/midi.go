package input

import (
	"fmt"
	"io"
	"os"

	"github.com/pleimann/ctlmap/internal/midi"
)

// MIDISource reads a raw MIDI device (/dev/snd/midiCxDy). Notes become
// button events and control changes become axis events. Writes go back to
// the same device.
type MIDISource struct {
	name    string
	rw      io.ReadWriteCloser
	parser  *midi.Parser
	buf     []byte
	pending []Event
}

// OpenMIDI opens a raw MIDI device for reading and writing, reporting only
// messages on channel (or all channels with midi.AnyChannel).
func OpenMIDI(path string, channel int) (*MIDISource, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open MIDI device %s: %w", path, err)
	}
	return NewMIDISource(path, f, channel), nil
}

// NewMIDISource decodes MIDI bytes read from rw
func NewMIDISource(name string, rw io.ReadWriteCloser, channel int) *MIDISource {
	return &MIDISource{
		name:   name,
		rw:     rw,
		parser: midi.NewParser(channel),
		buf:    make([]byte, 64),
	}
}

func (m *MIDISource) Name() string {
	return m.name
}

// ReadEvent returns the next note or control change
func (m *MIDISource) ReadEvent() (Event, error) {
	for len(m.pending) == 0 {
		n, err := m.rw.Read(m.buf)
		for _, b := range m.buf[:n] {
			if msg, ok := m.parser.Feed(b); ok {
				m.pending = append(m.pending, messageEvent(msg))
			}
		}
		if err != nil && len(m.pending) == 0 {
			return Event{}, classify(m.name, err)
		}
		if n == 0 && err == nil {
			return Event{}, classify(m.name, io.EOF)
		}
	}

	ev := m.pending[0]
	m.pending = m.pending[1:]
	return ev, nil
}

// Write sends raw MIDI bytes to the device
func (m *MIDISource) Write(p []byte) (int, error) {
	return m.rw.Write(p)
}

func (m *MIDISource) Close() error {
	return m.rw.Close()
}

func messageEvent(msg midi.Message) Event {
	switch msg.Type {
	case midi.NoteOn:
		return Event{Kind: Button, Control: msg.Data1, Value: Pressed}
	case midi.NoteOff:
		return Event{Kind: Button, Control: msg.Data1, Value: Released}
	default:
		return Event{Kind: Axis, Control: msg.Data1, Value: msg.Data2}
	}
}
