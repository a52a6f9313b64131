package input

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleimann/ctlmap/internal/midi"
)

type fakeMIDIPort struct {
	chunks  [][]byte
	written bytes.Buffer
	readErr error
}

func (f *fakeMIDIPort) Read(p []byte) (int, error) {
	if len(f.chunks) == 0 {
		if f.readErr != nil {
			return 0, f.readErr
		}
		return 0, io.EOF
	}
	n := copy(p, f.chunks[0])
	f.chunks = f.chunks[1:]
	return n, nil
}

func (f *fakeMIDIPort) Write(p []byte) (int, error) {
	return f.written.Write(p)
}

func (f *fakeMIDIPort) Close() error {
	return nil
}

func TestMIDISourceEvents(t *testing.T) {
	port := &fakeMIDIPort{chunks: [][]byte{
		{0x9A, 8, 127},        // note on, channel 10
		{0x8A, 8, 0, 0xBA, 1}, // note off, then half a control change
		{65, 2, 70},           // rest of it, then running status
		{0xB0, 1, 5},          // other channel
		{0x9A, 9, 0},          // note on velocity 0
	}}
	src := NewMIDISource("midi-test", port, 10)

	want := []Event{
		{Kind: Button, Control: 8, Value: Pressed},
		{Kind: Button, Control: 8, Value: Released},
		{Kind: Axis, Control: 1, Value: 65},
		{Kind: Axis, Control: 2, Value: 70},
		{Kind: Button, Control: 9, Value: Released},
	}
	for i, w := range want {
		ev, err := src.ReadEvent()
		require.NoError(t, err, "event %d", i)
		assert.Equal(t, w, ev, "event %d", i)
	}

	_, err := src.ReadEvent()
	assert.ErrorIs(t, err, ErrDisconnected)
}

func TestMIDISourceWritesBack(t *testing.T) {
	port := &fakeMIDIPort{}
	src := NewMIDISource("midi-test", port, midi.AnyChannel)

	ctrl := midi.NewController(src, midi.DefaultControllerConfig())
	require.NoError(t, ctrl.SetControl(3, 127))

	assert.Equal(t, []byte{0xBA, 3, 127}, port.written.Bytes())
}
