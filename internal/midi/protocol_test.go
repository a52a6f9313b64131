package midi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func feedAll(p *Parser, data []byte) []Message {
	var out []Message
	for _, b := range data {
		if m, ok := p.Feed(b); ok {
			out = append(out, m)
		}
	}
	return out
}

func TestParser(t *testing.T) {
	tests := []struct {
		name    string
		channel int
		data    []byte
		want    []Message
	}{
		{
			name:    "control change",
			channel: 10,
			data:    []byte{0xBA, 1, 65},
			want:    []Message{{Type: ControlChange, Channel: 10, Data1: 1, Data2: 65}},
		},
		{
			name:    "running status",
			channel: 10,
			data:    []byte{0xBA, 1, 65, 1, 66, 2, 0},
			want: []Message{
				{Type: ControlChange, Channel: 10, Data1: 1, Data2: 65},
				{Type: ControlChange, Channel: 10, Data1: 1, Data2: 66},
				{Type: ControlChange, Channel: 10, Data1: 2, Data2: 0},
			},
		},
		{
			name:    "note on and off",
			channel: 10,
			data:    []byte{0x9A, 8, 127, 0x8A, 8, 64},
			want: []Message{
				{Type: NoteOn, Channel: 10, Data1: 8, Data2: 127},
				{Type: NoteOff, Channel: 10, Data1: 8, Data2: 64},
			},
		},
		{
			name:    "zero velocity note on is note off",
			channel: 10,
			data:    []byte{0x9A, 8, 0},
			want:    []Message{{Type: NoteOff, Channel: 10, Data1: 8, Data2: 0}},
		},
		{
			name:    "other channel filtered",
			channel: 10,
			data:    []byte{0xB0, 1, 65, 0xBA, 2, 3},
			want:    []Message{{Type: ControlChange, Channel: 10, Data1: 2, Data2: 3}},
		},
		{
			name:    "any channel",
			channel: AnyChannel,
			data:    []byte{0xB0, 1, 65, 0xBA, 2, 3},
			want: []Message{
				{Type: ControlChange, Channel: 0, Data1: 1, Data2: 65},
				{Type: ControlChange, Channel: 10, Data1: 2, Data2: 3},
			},
		},
		{
			name:    "realtime inside message",
			channel: 10,
			data:    []byte{0xBA, 0xF8, 1, 0xFE, 65},
			want:    []Message{{Type: ControlChange, Channel: 10, Data1: 1, Data2: 65}},
		},
		{
			name:    "sysex skipped",
			channel: 10,
			data:    []byte{0xF0, 0x00, 0x20, 0x32, 0xF7, 0xBA, 4, 5},
			want:    []Message{{Type: ControlChange, Channel: 10, Data1: 4, Data2: 5}},
		},
		{
			name:    "data without status dropped",
			channel: 10,
			data:    []byte{1, 2, 0xBA, 1, 2},
			want:    []Message{{Type: ControlChange, Channel: 10, Data1: 1, Data2: 2}},
		},
		{
			name:    "program change has one data byte",
			channel: 10,
			data:    []byte{0xCA, 5, 0xBA, 1, 2},
			want:    []Message{{Type: ControlChange, Channel: 10, Data1: 1, Data2: 2}},
		},
		{
			name:    "system common cancels running status",
			channel: 10,
			data:    []byte{0xBA, 1, 2, 0xF3, 0x01, 1, 3},
			want:    []Message{{Type: ControlChange, Channel: 10, Data1: 1, Data2: 2}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := feedAll(NewParser(tt.channel), tt.data)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMessageEncode(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		want    []byte
		wantErr bool
	}{
		{"control change", Message{Type: ControlChange, Channel: 10, Data1: 1, Data2: 64}, []byte{0xBA, 1, 64}, false},
		{"note on", Message{Type: NoteOn, Channel: 10, Data1: 8, Data2: 127}, []byte{0x9A, 8, 127}, false},
		{"note off", Message{Type: NoteOff, Channel: 0, Data1: 8}, []byte{0x80, 8, 0}, false},
		{"value clamped", Message{Type: ControlChange, Channel: 10, Data1: 1, Data2: 128}, []byte{0xBA, 1, 127}, false},
		{"bad channel", Message{Type: ControlChange, Channel: 16}, nil, true},
		{"bad type", Message{Channel: 1}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.msg.Encode()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
