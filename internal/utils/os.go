package utils

import (
	"os"
	"path/filepath"
)

// ExecutableName returns the name the program was installed under
func ExecutableName() string {
	executable, err := os.Executable()
	if err != nil {
		return "ctlmap"
	}
	return filepath.Base(executable)
}

// ConfigDir returns the per-user configuration directory
func ConfigDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return filepath.Join(".config", "ctlmap")
	}
	return filepath.Join(dir, "ctlmap")
}
