package dispatch

import (
	"fmt"
	"log/slog"

	"github.com/pleimann/ctlmap/internal/control"
)

// Initializer puts a controller into a known state and reports where it
// left each encoder
type Initializer interface {
	Initialize() (map[int]int, error)
}

// HardwareReset re-runs controller initialization and brings the
// interpreter's stored positions in line with the hardware
type HardwareReset struct {
	Device      Initializer
	Interpreter *control.Interpreter
	Logger      *slog.Logger
}

// Reinitialize implements action.Reinitializer
func (h *HardwareReset) Reinitialize() error {
	if h.Logger != nil {
		h.Logger.Debug("Initializing controller")
	}

	positions, err := h.Device.Initialize()
	if err != nil {
		return fmt.Errorf("controller initialization failed: %w", err)
	}
	if h.Interpreter != nil {
		for c, v := range positions {
			h.Interpreter.Reset(c, v)
		}
	}
	return nil
}
