package action

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tap(code Keycode) []sentKey {
	return []sentKey{{Code: code, Press: true}, {Code: code, Press: false}}
}

func TestExecutorKey(t *testing.T) {
	sink := newFakeSink()
	e := NewExecutor(sink)

	require.NoError(t, e.Run(Key{Name: "a"}))

	assert.Equal(t, tap(38), sink.sent)
	assert.Equal(t, 1, sink.flushes)
}

func TestExecutorSequenceOrder(t *testing.T) {
	sink := newFakeSink()
	e := NewExecutor(sink)

	require.NoError(t, e.Run(Keys("a", "b", "c")))

	var want []sentKey
	for _, code := range []Keycode{38, 56, 54} {
		want = append(want, tap(code)...)
	}
	assert.Equal(t, want, sink.sent)
}

func TestExecutorChord(t *testing.T) {
	sink := newFakeSink()
	e := NewExecutor(sink)

	require.NoError(t, e.Run(NewChord("ctrl", "alt", "t")))

	want := []sentKey{
		{Code: 37, Press: true, Delay: 0},
		{Code: 64, Press: true, Delay: 0},
		{Code: 28, Press: true, Delay: DefaultChordPressDelay},
		{Code: 28, Press: false, Delay: DefaultChordReleaseDelay},
		{Code: 64, Press: false, Delay: DefaultChordReleaseDelay},
		{Code: 37, Press: false, Delay: DefaultChordReleaseDelay},
	}
	assert.Equal(t, want, sink.sent)
	assert.Equal(t, 1, sink.flushes)
}

func TestExecutorChordDelays(t *testing.T) {
	sink := newFakeSink()
	e := NewExecutor(sink, WithChordDelays(5*time.Millisecond, 7*time.Millisecond))

	require.NoError(t, e.Run(NewChord("shift", "a")))

	require.Len(t, sink.sent, 4)
	assert.Equal(t, 5*time.Millisecond, sink.sent[1].Delay)
	assert.Equal(t, 7*time.Millisecond, sink.sent[2].Delay)
}

func TestExecutorSingleKeyChord(t *testing.T) {
	sink := newFakeSink()
	e := NewExecutor(sink)

	require.NoError(t, e.Run(NewChord("a")))

	assert.Equal(t, []sentKey{
		{Code: 38, Press: true, Delay: DefaultChordPressDelay},
		{Code: 38, Press: false, Delay: DefaultChordReleaseDelay},
	}, sink.sent)
}

func TestExecutorEmptyChord(t *testing.T) {
	e := NewExecutor(newFakeSink())
	assert.ErrorIs(t, e.Run(Chord{}), ErrUnsupportedKeySpec)
}

func TestExecutorChordUnknownKeySendsNothing(t *testing.T) {
	sink := newFakeSink()
	e := NewExecutor(sink)

	err := e.Run(NewChord("ctrl", "hyperdrive"))
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Empty(t, sink.sent)
}

func TestExecutorSleep(t *testing.T) {
	sink := newFakeSink()
	e := NewExecutor(sink)

	start := time.Now()
	require.NoError(t, e.Run(Seq(Key{Name: "a"}, Millis(50), Key{Name: "b"})))

	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	require.Len(t, sink.at, 4)
	assert.GreaterOrEqual(t, sink.at[2].Sub(sink.at[1]), 50*time.Millisecond)
}

func TestExecutorNegativeSleep(t *testing.T) {
	e := NewExecutor(newFakeSink())
	assert.ErrorIs(t, e.Run(Sleep{Duration: -time.Millisecond}), ErrUnsupportedKeySpec)
}

func TestExecutorNestedSequence(t *testing.T) {
	sink := newFakeSink()
	runner := &recordingRunner{}
	e := NewExecutor(sink, WithRunner(runner))
	var slept []time.Duration
	e.sleep = func(d time.Duration) { slept = append(slept, d) }

	spec := Seq(
		Key{Name: "a"},
		Seq(NewChord("ctrl", "b"), Millis(20)),
		Command{Args: []string{"notify-send", "hi"}},
		Keys("c"),
	)
	require.NoError(t, e.Run(spec))

	assert.Equal(t, []time.Duration{20 * time.Millisecond}, slept)
	assert.Equal(t, [][]string{{"notify-send", "hi"}}, runner.ran)
	require.Len(t, sink.sent, 8)
	assert.Equal(t, Keycode(38), sink.sent[0].Code)
	assert.Equal(t, Keycode(54), sink.sent[7].Code)
}

func TestExecutorStopsOnError(t *testing.T) {
	sink := newFakeSink()
	e := NewExecutor(sink)

	err := e.Run(Seq(Key{Name: "a"}, Key{Name: "nope"}, Key{Name: "b"}))
	assert.ErrorIs(t, err, ErrUnknownKey)
	assert.Equal(t, tap(38), sink.sent)
}

func TestExecutorSinkError(t *testing.T) {
	sink := newFakeSink()
	sink.sendErr = errSink
	e := NewExecutor(sink)

	assert.ErrorIs(t, e.Run(Key{Name: "a"}), errSink)
}

func TestExecutorDryRun(t *testing.T) {
	sink := newFakeSink()
	runner := &recordingRunner{}
	e := NewExecutor(sink, WithDryRun(true), WithRunner(runner))

	require.NoError(t, e.Run(Seq(Key{Name: "a"}, NewChord("ctrl", "t"), Command{Args: []string{"true"}})))

	assert.Empty(t, sink.sent)
	assert.Zero(t, sink.flushes)
	assert.Equal(t, 1, sink.lookups["a"])
	assert.Equal(t, 1, sink.lookups["ctrl"])
	assert.Len(t, runner.ran, 1)

	// Unknown keys still fail in dry-run mode.
	assert.ErrorIs(t, e.Run(Key{Name: "nope"}), ErrUnknownKey)
}

func TestExecutorCommandFailureIsRecoverable(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"success", []string{"true"}},
		{"non-zero exit", []string{"false"}},
		{"missing program", []string{"/nonexistent/ctlmap-test-binary"}},
		{"empty", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := newFakeSink()
			e := NewExecutor(sink)

			err := e.Run(Seq(Command{Args: tt.args}, Key{Name: "a"}))
			require.NoError(t, err)
			assert.Equal(t, tap(38), sink.sent)
		})
	}
}

func TestExecuteAction(t *testing.T) {
	sink := newFakeSink()
	reinit := &countingReinit{}
	e := NewExecutor(sink, WithReinitializer(reinit))

	require.NoError(t, e.Execute(New(Keys("a"), "Tap a")))
	assert.Len(t, sink.sent, 2)

	require.NoError(t, e.Execute(Action{Kind: KindKeys, Desc: "Unassigned"}))
	assert.Len(t, sink.sent, 2)

	require.NoError(t, e.Execute(Reinit("Boing")))
	assert.Equal(t, 1, reinit.calls)

	reinit.err = errors.New("write failed")
	assert.Error(t, e.Execute(Reinit("Boing")))

	assert.ErrorIs(t, e.Execute(Action{Kind: Kind(9)}), ErrUnsupportedKeySpec)
}

func TestExecuteReinitWithoutHandler(t *testing.T) {
	e := NewExecutor(newFakeSink())
	assert.NoError(t, e.Execute(Reinit("Boing")))
}

type bogusSpec struct{ Key }

func TestExecutorUnsupportedKeySpec(t *testing.T) {
	e := NewExecutor(newFakeSink())

	assert.ErrorIs(t, e.Run(&Key{Name: "a"}), ErrUnsupportedKeySpec)
	assert.ErrorIs(t, e.Run(bogusSpec{}), ErrUnsupportedKeySpec)
}
