package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleimann/ctlmap/internal/action"
	"github.com/pleimann/ctlmap/internal/control"
	"github.com/pleimann/ctlmap/internal/input"
)

func TestLayouts(t *testing.T) {
	assert.Equal(t, []string{LayoutGamepad, LayoutXTouchMini}, Layouts())

	_, err := Layout("launchpad")
	assert.Error(t, err)
}

func TestXTouchMiniTable(t *testing.T) {
	cfg, err := Layout(LayoutXTouchMini)
	require.NoError(t, err)
	assert.Equal(t, string(input.KindMIDI), cfg.Device.Kind)

	m, err := cfg.Table()
	require.NoError(t, err)
	assert.Equal(t, 17+5+1, m.Len())
	assert.Equal(t, []int{1, 2, 6, 7, 8}, m.Spinners())

	// Buttons fire on release only.
	b, ok := m.Lookup(action.Trigger{Kind: input.Button, Control: 8, Value: input.Released})
	require.True(t, ok)
	assert.Equal(t, "Flag Green", b.Action.Desc)
	assert.Equal(t, "[(Meta_L+3), Right]", b.Action.Spec.String())
	_, ok = m.Lookup(action.Trigger{Kind: input.Button, Control: 8, Value: input.Pressed})
	assert.False(t, ok)

	b, ok = m.Lookup(action.Trigger{Kind: input.Button, Control: 20, Value: input.Released})
	require.True(t, ok)
	assert.Equal(t, action.KindReinit, b.Action.Kind)

	b, _ = m.Lookup(action.Trigger{Kind: input.Button, Control: 12, Value: input.Released})
	assert.Equal(t, action.Command{Args: []string{"toggle-grayscale.sh"}}, b.Action.Spec)

	knob, ok := m.Continuous(1)
	require.True(t, ok)
	require.NotNil(t, knob.Spinner)
	assert.Equal(t, control.DefaultMidpoint, knob.Spinner.Midpoint)

	fader, ok := m.Continuous(9)
	require.True(t, ok)
	require.NotNil(t, fader.Slider)
	assert.Equal(t, 5, fader.Slider.Delta)
	assert.True(t, fader.Slider.ZeroAction)

	cc := cfg.Controller()
	assert.Equal(t, []int{1, 2, 6, 7, 8}, cc.Knobs)
	assert.Len(t, cc.LEDs, 16)
	assert.Equal(t, 10, cc.Channel)
}

func TestGamepadTable(t *testing.T) {
	cfg, err := Layout(LayoutGamepad)
	require.NoError(t, err)
	assert.Equal(t, "/dev/input/js0", cfg.Device.Path)

	m, err := cfg.Table()
	require.NoError(t, err)
	assert.Empty(t, m.Spinners())

	b, ok := m.Lookup(action.Trigger{Kind: input.Axis, Control: 9, Value: -32767})
	require.True(t, ok)
	assert.Equal(t, "dpad-up", b.Name)

	b, ok = m.Lookup(action.Trigger{Kind: input.Button, Control: 7, Value: input.Released})
	require.True(t, ok)
	assert.Nil(t, b.Action.Spec, "l-hat is a placeholder")
}

func TestLayoutIsFreshCopy(t *testing.T) {
	a, _ := Layout(LayoutGamepad)
	a.Buttons[0].Desc = "changed"

	b, _ := Layout(LayoutGamepad)
	assert.Equal(t, "Flag Green", b.Buttons[0].Desc)
}
