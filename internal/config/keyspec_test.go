package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pleimann/ctlmap/internal/action"
)

func TestParseKeySpec(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want action.KeySpec
	}{
		{"nil placeholder", nil, nil},
		{"key", "Return", action.Key{Name: "Return"}},
		{"yaml int sleep", 250, action.Millis(250)},
		{"toml int sleep", int64(250), action.Millis(250)},
		{"whole float sleep", float64(250), action.Millis(250)},
		{"sequence", []any{"a", "b"}, action.Keys("a", "b")},
		{
			"list in list is a chord",
			[]any{[]any{"Meta_L", "3"}, "Right"},
			action.Seq(action.NewChord("Meta_L", "3"), action.Key{Name: "Right"}),
		},
		{
			"sleep inside sequence",
			[]any{"a", 50, "b"},
			action.Seq(action.Key{Name: "a"}, action.Millis(50), action.Key{Name: "b"}),
		},
		{"tagged chord", map[string]any{"chord": []any{"Control_L", "c"}}, action.NewChord("Control_L", "c")},
		{"tagged sleep", map[string]any{"sleep": int64(10)}, action.Millis(10)},
		{"tagged key", map[string]any{"key": "F3"}, action.Key{Name: "F3"}},
		{"command list", map[string]any{"command": []any{"echo", "x"}}, action.Command{Args: []string{"echo", "x"}}},
		{"command string", map[string]any{"command": "notify-send hello"}, action.Command{Args: []string{"notify-send", "hello"}}},
		{
			"nested sequence",
			[]any{"a", map[string]any{"sequence": []any{"b", []any{"c", "d"}}}},
			action.Seq(action.Key{Name: "a"}, action.Seq(action.Key{Name: "b"}, action.NewChord("c", "d"))),
		},
		{"empty sequence", []any{}, action.Sequence{Specs: []action.KeySpec{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseKeySpec(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseKeySpecErrors(t *testing.T) {
	tests := []struct {
		name string
		in   any
	}{
		{"empty key", "  "},
		{"fractional sleep", 2.5},
		{"negative sleep", -1},
		{"bool", true},
		{"chord of numbers", []any{[]any{"a", 1}}},
		{"empty chord", map[string]any{"chord": []any{}}},
		{"two tags", map[string]any{"chord": []any{"a"}, "sleep": 1}},
		{"unknown tag", map[string]any{"macro": "x"}},
		{"key tag not a string", map[string]any{"key": 5}},
		{"sleep tag not a number", map[string]any{"sleep": "soon"}},
		{"empty command", map[string]any{"command": ""}},
		{"nil inside sequence", []any{"a", nil}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseKeySpec(tt.in)
			assert.Error(t, err)
		})
	}
}

func TestActionConfig(t *testing.T) {
	a, err := ActionConfig{Desc: "Boing", Reinit: true}.Action()
	require.NoError(t, err)
	assert.Equal(t, action.Reinit("Boing"), a)

	a, err = ActionConfig{Desc: "Tap", Keys: "a"}.Action()
	require.NoError(t, err)
	assert.Equal(t, action.New(action.Key{Name: "a"}, "Tap"), a)

	a, err = ActionConfig{}.Action()
	require.NoError(t, err)
	assert.Nil(t, a.Spec)
}
