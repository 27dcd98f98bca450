package adapters

import (
	"os/exec"
	"path/filepath"

	"vx/internal/ports"
)

// SystemLocatorAdapter finds executables on the ambient PATH.
type SystemLocatorAdapter struct{}

func NewSystemLocatorAdapter() SystemLocatorAdapter {
	return SystemLocatorAdapter{}
}

func (a SystemLocatorAdapter) Locate(name string) (string, bool) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", false
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return path, true
}

var _ ports.LocatorPort = SystemLocatorAdapter{}
