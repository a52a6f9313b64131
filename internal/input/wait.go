package input

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultPollInterval is how often WaitForDevice retries when it cannot
// watch the device's directory
const DefaultPollInterval = 250 * time.Millisecond

// WaitForDevice blocks until path exists and can be opened. It watches the
// parent directory for the node to appear, and falls back to polling when
// the directory itself does not exist yet (e.g. /dev/input/by-id before the
// first device is plugged in).
func WaitForDevice(ctx context.Context, path string) error {
	path = filepath.Clean(path)
	if openable(path) {
		return nil
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return pollForDevice(ctx, path, DefaultPollInterval)
	}
	defer w.Close()

	if err := w.Add(filepath.Dir(path)); err != nil {
		return pollForDevice(ctx, path, DefaultPollInterval)
	}
	// The node may have appeared between the first check and the watch.
	if openable(path) {
		return nil
	}

	base := filepath.Base(path)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.Events:
			if !ok {
				return pollForDevice(ctx, path, DefaultPollInterval)
			}
			if event.Op&fsnotify.Create == 0 || filepath.Base(event.Name) != base {
				continue
			}
			// udev creates the node before it fixes up permissions.
			return pollForDevice(ctx, path, 50*time.Millisecond)
		case err, ok := <-w.Errors:
			if !ok {
				return pollForDevice(ctx, path, DefaultPollInterval)
			}
			return err
		}
	}
}

func pollForDevice(ctx context.Context, path string, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if openable(path) {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func openable(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return false
	}
	f.Close()
	return true
}
