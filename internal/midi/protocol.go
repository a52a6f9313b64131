package midi

import "fmt"

// Channel voice message status nibbles
const (
	StatusNoteOff       byte = 0x80
	StatusNoteOn        byte = 0x90
	StatusControlChange byte = 0xB0
)

// AnyChannel disables channel filtering in the parser
const AnyChannel = -1

// MessageType is the kind of a decoded channel message
type MessageType int

const (
	NoteOff MessageType = iota + 1
	NoteOn
	ControlChange
)

func (t MessageType) String() string {
	switch t {
	case NoteOff:
		return "note_off"
	case NoteOn:
		return "note_on"
	case ControlChange:
		return "control_change"
	default:
		return fmt.Sprintf("unknown(%d)", int(t))
	}
}

// Message is one decoded note or control change message.
// For notes Data1 is the note and Data2 the velocity; for control changes
// Data1 is the controller (param) and Data2 the value.
type Message struct {
	Type    MessageType
	Channel int
	Data1   int
	Data2   int
}

// Encode serializes the message as a 3-byte MIDI channel message
func (m Message) Encode() ([]byte, error) {
	var status byte
	switch m.Type {
	case NoteOff:
		status = StatusNoteOff
	case NoteOn:
		status = StatusNoteOn
	case ControlChange:
		status = StatusControlChange
	default:
		return nil, fmt.Errorf("cannot encode message type %s", m.Type)
	}
	if m.Channel < 0 || m.Channel > 15 {
		return nil, fmt.Errorf("invalid channel %d", m.Channel)
	}
	return []byte{status | byte(m.Channel), clamp7(m.Data1), clamp7(m.Data2)}, nil
}

func clamp7(v int) byte {
	switch {
	case v < 0:
		return 0
	case v > 127:
		return 127
	}
	return byte(v)
}

// Parser decodes a raw MIDI byte stream into note and control change
// messages. It honours running status and skips system exclusive data,
// real-time bytes and channel messages it has no use for.
type Parser struct {
	channel int

	status  byte
	data    [2]byte
	n       int
	need    int
	inSysex bool
}

// NewParser creates a parser that only reports messages on channel
// (0-15), or on every channel with AnyChannel.
func NewParser(channel int) *Parser {
	return &Parser{channel: channel}
}

// Feed consumes one byte and returns a message when one is complete
func (p *Parser) Feed(b byte) (Message, bool) {
	switch {
	case b >= 0xF8:
		// Real-time bytes may appear anywhere and never disturb running status.
		return Message{}, false
	case b == 0xF0:
		p.inSysex = true
		p.status = 0
		return Message{}, false
	case b == 0xF7:
		p.inSysex = false
		return Message{}, false
	case b >= 0xF0:
		// System common: cancels running status.
		p.status = 0
		p.inSysex = false
		return Message{}, false
	case b >= 0x80:
		p.inSysex = false
		p.status = b
		p.n = 0
		p.need = dataLength(b)
		return Message{}, false
	}

	if p.inSysex || p.status == 0 {
		return Message{}, false
	}

	p.data[p.n] = b
	p.n++
	if p.n < p.need {
		return Message{}, false
	}
	p.n = 0

	return p.message()
}

func (p *Parser) message() (Message, bool) {
	channel := int(p.status & 0x0F)
	if p.channel != AnyChannel && channel != p.channel {
		return Message{}, false
	}

	m := Message{
		Channel: channel,
		Data1:   int(p.data[0]),
	}
	if p.need > 1 {
		m.Data2 = int(p.data[1])
	}

	switch p.status & 0xF0 {
	case StatusNoteOff:
		m.Type = NoteOff
	case StatusNoteOn:
		m.Type = NoteOn
		if m.Data2 == 0 {
			// Note on with zero velocity is a note off by convention.
			m.Type = NoteOff
		}
	case StatusControlChange:
		m.Type = ControlChange
	default:
		return Message{}, false
	}
	return m, true
}

func dataLength(status byte) int {
	switch status & 0xF0 {
	case 0xC0, 0xD0:
		return 1
	default:
		return 2
	}
}
