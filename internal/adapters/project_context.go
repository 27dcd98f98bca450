package adapters

import (
	"os"
	"path/filepath"

	"vx/internal/ports"
	"vx/internal/shared"
)

// ProjectContextAdapter discovers the project config and lockfile by
// walking upward from the working directory, the same way git finds
// its repository root.
type ProjectContextAdapter struct {
	Dir string
}

func NewProjectContextAdapter() ProjectContextAdapter {
	dir, err := os.Getwd()
	if err != nil {
		dir = "."
	}
	if abs, aerr := filepath.Abs(dir); aerr == nil {
		dir = abs
	}
	return ProjectContextAdapter{Dir: dir}
}

func (a ProjectContextAdapter) Cwd() string {
	return a.Dir
}

func (a ProjectContextAdapter) ConfigDigest() (string, bool) {
	return a.digestOf("vx.toml")
}

func (a ProjectContextAdapter) LockDigest() (string, bool) {
	return a.digestOf("vx.lock")
}

// ConfigPath returns the nearest vx.toml above the working directory.
func (a ProjectContextAdapter) ConfigPath() (string, bool) {
	return a.findUpward("vx.toml")
}

func (a ProjectContextAdapter) digestOf(name string) (string, bool) {
	path, ok := a.findUpward(name)
	if !ok {
		return "", false
	}
	digest, err := shared.FileSha256Hex(path)
	if err != nil {
		return "", false
	}
	return digest, true
}

func (a ProjectContextAdapter) findUpward(name string) (string, bool) {
	dir := a.Dir
	for {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

var _ ports.ProjectPort = ProjectContextAdapter{}
