package control

import "fmt"

// Range limits for continuous controls reporting 7-bit positions
const (
	MinValue = 0
	MaxValue = 127

	// DefaultMidpoint is where spinners rest after the controller is initialized
	DefaultMidpoint = 64
)

// Direction is the semantic result of interpreting a continuous-control sample
type Direction int

const (
	None Direction = iota
	Up
	Down
	Zero
)

func (d Direction) String() string {
	switch d {
	case None:
		return "none"
	case Up:
		return "up"
	case Down:
		return "down"
	case Zero:
		return "zero"
	default:
		return fmt.Sprintf("unknown(%d)", d)
	}
}

// Spinner describes a rotary encoder that reports absolute positions but is
// expected to turn endlessly. Hitting either end of the range wraps it around.
type Spinner struct {
	Control  int
	Midpoint int
}

// Slider describes a bounded, non-wrapping fader.
type Slider struct {
	Control int
	// Delta is the jitter band: moves of Delta or less are ignored.
	Delta int
	// ZeroAction reports whether a sample of exactly zero emits Zero.
	ZeroAction bool
}

// Recenterer moves a control on the hardware side, keeping its position
// indicator in sync with the value we store.
type Recenterer interface {
	SetControl(control, value int) error
}
