package xkeys

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgb/xtest"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"

	"github.com/pleimann/ctlmap/internal/action"
)

var (
	// ErrNoXTest means the display server lacks the XTEST extension
	ErrNoXTest = errors.New("X server does not support the XTEST extension")
	// ErrConnectionClosed means the display connection went away
	ErrConnectionClosed = errors.New("X connection closed")
)

// backlog bounds how many unsolicited X events are buffered between drains
const backlog = 64

// Sink injects synthetic key events into an X display through XTEST
type Sink struct {
	xu     *xgbutil.XUtil
	conn   *xgb.Conn
	root   xproto.Window
	logger *slog.Logger

	mu      sync.Mutex
	cookies []xtest.FakeInputCookie

	events  chan any
	pending chan struct{}
	done    chan struct{}
	closed  bool
}

// Open connects to display (empty for $DISPLAY) and verifies XTEST support
func Open(display string, logger *slog.Logger) (*Sink, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	xu, err := xgbutil.NewConnDisplay(display)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X display %q: %w", display, err)
	}
	conn := xu.Conn()

	if err := xtest.Init(conn); err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("%w: %v", ErrNoXTest, err)
	}
	ver, err := xtest.GetVersion(conn, 2, 2).Reply()
	if err != nil {
		xu.Conn().Close()
		return nil, fmt.Errorf("%w: %v", ErrNoXTest, err)
	}
	logger.Debug("XTEST available", "major", ver.MajorVersion, "minor", ver.MinorVersion)

	keybind.Initialize(xu)

	s := &Sink{
		xu:      xu,
		conn:    conn,
		root:    xu.RootWin(),
		logger:  logger,
		events:  make(chan any, backlog),
		pending: make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
	go s.readLoop()
	return s, nil
}

// Keycode resolves a keysym name such as "Return" or "ctrl" to the keycode
// the server's current keyboard mapping assigns it
func (s *Sink) Keycode(name string) (action.Keycode, error) {
	codes := keybind.StrToKeycodes(s.xu, name)
	if len(codes) == 0 {
		return 0, fmt.Errorf("no keycode for keysym %q", name)
	}
	return action.Keycode(codes[0]), nil
}

// SendKey queues a press or release. delay is applied by the server before
// the event takes effect.
func (s *Sink) SendKey(code action.Keycode, press bool, delay time.Duration) error {
	typ := byte(xproto.KeyRelease)
	if press {
		typ = xproto.KeyPress
	}

	cookie := xtest.FakeInputChecked(s.conn, typ, byte(code), uint32(delay.Milliseconds()), s.root, 0, 0, 0)

	s.mu.Lock()
	s.cookies = append(s.cookies, cookie)
	s.mu.Unlock()
	return nil
}

// Flush waits for the server to acknowledge every queued event
func (s *Sink) Flush() error {
	s.mu.Lock()
	cookies := s.cookies
	s.cookies = nil
	s.mu.Unlock()

	var errs []error
	for _, c := range cookies {
		if err := c.Check(); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("X rejected synthetic input: %w", errors.Join(errs...))
	}
	return nil
}

// Pending signals when there are server events or errors to drain
func (s *Sink) Pending() <-chan struct{} {
	return s.pending
}

// Drain consumes everything the server has sent since the last drain. It
// returns ErrConnectionClosed once the connection is gone.
func (s *Sink) Drain() error {
	for {
		select {
		case item, ok := <-s.events:
			if !ok {
				return ErrConnectionClosed
			}
			switch v := item.(type) {
			case xgb.Error:
				s.logger.Warn("X error", "error", v.Error())
			case xgb.Event:
				s.logger.Debug("X event", "event", v.String())
			}
		default:
			return nil
		}
	}
}

// Close disconnects from the display
func (s *Sink) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	s.conn.Close()
	<-s.done
	return nil
}

func (s *Sink) readLoop() {
	defer close(s.done)
	defer s.notify()
	defer close(s.events)

	for {
		ev, xerr := s.conn.WaitForEvent()
		if ev == nil && xerr == nil {
			return
		}

		var item any = ev
		if xerr != nil {
			item = xerr
		}
		select {
		case s.events <- item:
		default:
			s.logger.Warn("X event backlog full, dropping", "item", fmt.Sprint(item))
		}
		s.notify()
	}
}

func (s *Sink) notify() {
	select {
	case s.pending <- struct{}{}:
	default:
	}
}
