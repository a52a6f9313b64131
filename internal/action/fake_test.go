package action

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

type sentKey struct {
	Code  Keycode
	Press bool
	Delay time.Duration
}

// fakeSink records emitted key events and resolves names from a fixed table
type fakeSink struct {
	mu      sync.Mutex
	codes   map[string]Keycode
	lookups map[string]int
	sent    []sentKey
	flushes int
	at      []time.Time
	sendErr error
}

func newFakeSink() *fakeSink {
	return &fakeSink{
		codes: map[string]Keycode{
			"a": 38, "b": 56, "c": 54, "t": 28,
			"ctrl": 37, "alt": 64, "shift": 50,
			"Return": 36, "slash": 61, "period": 60,
		},
		lookups: make(map[string]int),
	}
}

func (f *fakeSink) Keycode(name string) (Keycode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups[name]++
	code, ok := f.codes[name]
	if !ok {
		return 0, fmt.Errorf("no keysym %q", name)
	}
	return code, nil
}

func (f *fakeSink) SendKey(code Keycode, press bool, delay time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, sentKey{Code: code, Press: press, Delay: delay})
	f.at = append(f.at, time.Now())
	return nil
}

func (f *fakeSink) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes++
	return nil
}

// recordingRunner records commands instead of running them
type recordingRunner struct {
	ran [][]string
	err error
}

func (r *recordingRunner) Run(args []string) error {
	r.ran = append(r.ran, args)
	return r.err
}

type countingReinit struct {
	calls int
	err   error
}

func (c *countingReinit) Reinitialize() error {
	c.calls++
	return c.err
}

var errSink = errors.New("sink broken")
