package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pleimann/ctlmap/internal/input"
)

func TestUniqueHID(t *testing.T) {
	devices := []input.HIDInfo{
		{VendorID: 0x1397, ProductID: 0x00B3, Product: "X-TOUCH MINI", Usage: 1},
		{VendorID: 0x1397, ProductID: 0x00B3, Product: "X-TOUCH MINI", Usage: 2},
		{VendorID: 0, ProductID: 0, Product: "virtual"},
		{VendorID: 0x045E, ProductID: 0x028E, Product: "Controller"},
	}

	unique := UniqueHID(devices)
	assert.Len(t, unique, 2)
	assert.Equal(t, "X-TOUCH MINI", unique[0].Product)
	assert.Equal(t, "Controller", unique[1].Product)
}

func TestSuggestLayout(t *testing.T) {
	layouts := []string{"gamepad", "xtouch-mini"}

	assert.Equal(t, "xtouch-mini", suggestLayout(input.DeviceInfo{Kind: input.KindMIDI}, layouts))
	assert.Equal(t, "gamepad", suggestLayout(input.DeviceInfo{Kind: input.KindJoystick}, layouts))
	assert.Equal(t, "custom", suggestLayout(input.DeviceInfo{Kind: input.KindMIDI}, []string{"custom"}))
	assert.Equal(t, "", suggestLayout(input.DeviceInfo{}, nil))
}

func TestFormatExamplesAligns(t *testing.T) {
	out := FormatExamples([]Example{
		{"a", "first"},
		{"abc", "second"},
	})

	assert.Contains(t, out, "Examples")
	assert.Contains(t, out, "first")
	assert.Contains(t, out, "second")
}

func TestPrintDeviceList(t *testing.T) {
	var buf bytes.Buffer
	PrintDeviceList(&buf, []input.DeviceInfo{
		{Kind: input.KindJoystick, Path: "/dev/input/js0", Name: "Gamepad"},
		{Kind: input.KindMIDI, Path: "/dev/snd/midiC1D0"},
	}, []input.HIDInfo{{VendorID: 0x1397, ProductID: 0x00B3, Product: "X-TOUCH MINI", Manufacturer: "Behringer"}})

	out := buf.String()
	assert.Contains(t, out, "Found 2 device(s)")
	assert.Contains(t, out, "/dev/input/js0")
	assert.Contains(t, out, "Unknown Device")
	assert.Contains(t, out, "0x1397:0x00B3")
	assert.Contains(t, out, "Behringer")
}

func TestPrintDeviceListEmpty(t *testing.T) {
	var buf bytes.Buffer
	PrintDeviceList(&buf, nil, nil)
	assert.Contains(t, buf.String(), "No joystick, MIDI or event devices found")
}

func TestPrintCheckReport(t *testing.T) {
	var buf bytes.Buffer
	PrintCheckReport(&buf, "layout gamepad", 9, 12, nil)
	assert.Contains(t, buf.String(), "Every key resolves")

	buf.Reset()
	PrintCheckReport(&buf, "mapping.yaml", 3, 2, []CheckProblem{
		{Binding: "Flag Green", Err: errors.New(`no keycode for key "Hyper_Q"`)},
	})
	out := buf.String()
	assert.Contains(t, out, "Flag Green")
	assert.Contains(t, out, "Hyper_Q")
	assert.False(t, strings.Contains(out, "Every key resolves"))
}
