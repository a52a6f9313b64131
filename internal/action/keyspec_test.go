package action

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeySpecString(t *testing.T) {
	tests := []struct {
		spec KeySpec
		want string
	}{
		{Key{Name: "Return"}, "Return"},
		{NewChord("ctrl", "alt", "t"), "(ctrl+alt+t)"},
		{Millis(250), "sleep(250ms)"},
		{Command{Args: []string{"xdotool", "key", "a"}}, "cmd[xdotool key a]"},
		{Seq(Keys("a", "b"), NewChord("ctrl", "c")), "[[a, b], (ctrl+c)]"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.spec.String())
		})
	}
}

func TestMillis(t *testing.T) {
	assert.Equal(t, 1500*time.Millisecond, Millis(1500).Duration)
}

func TestWalk(t *testing.T) {
	spec := Seq(Key{Name: "a"}, Seq(NewChord("b"), Millis(1)), Key{Name: "c"})

	var visited []string
	require.NoError(t, Walk(spec, func(s KeySpec) error {
		if _, ok := s.(Sequence); !ok {
			visited = append(visited, s.String())
		}
		return nil
	}))
	assert.Equal(t, []string{"a", "(b)", "sleep(1ms)", "c"}, visited)

	assert.NoError(t, Walk(nil, func(KeySpec) error {
		t.Fatal("nil spec has no nodes")
		return nil
	}))
}
