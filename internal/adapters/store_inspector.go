package adapters

import (
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"github.com/Masterminds/semver/v3"

	"vx/internal/ports"
	"vx/internal/shared"
)

// StoreInspectorAdapter reads the on-disk store layout
// <root>/<runtime>/<version>/ and finds runtime executables inside
// version directories. Install layouts differ per runtime (some ship
// bin/, some nest a release directory), so the search descends up to
// three levels.
type StoreInspectorAdapter struct {
	Root string
}

func NewStoreInspectorAdapter(root string) StoreInspectorAdapter {
	return StoreInspectorAdapter{Root: root}
}

func (a StoreInspectorAdapter) IsInstalled(runtimeName string, version string) bool {
	_, ok := a.ExecutablePath(runtimeName, version)
	return ok
}

// ListVersions returns installed versions newest first. Directories
// that do not parse as versions sort after those that do, by name.
func (a StoreInspectorAdapter) ListVersions(runtimeName string) ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(a.Root, runtimeName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var versions []string
	for _, entry := range entries {
		if entry.IsDir() {
			versions = append(versions, entry.Name())
		}
	}
	sort.Slice(versions, func(i, j int) bool {
		vi, erri := semver.NewVersion(versions[i])
		vj, errj := semver.NewVersion(versions[j])
		if erri == nil && errj == nil {
			return vi.GreaterThan(vj)
		}
		if erri == nil {
			return true
		}
		if errj == nil {
			return false
		}
		return versions[i] > versions[j]
	})
	return versions, nil
}

// ExecutablePath locates the runtime executable inside an installed
// version directory, searching up to three directory levels deep. The
// executable is assumed to carry the runtime's own name; tools whose
// invoked binary differs (uvx runs uv) depend on the providing
// runtime's store entry, not their own.
func (a StoreInspectorAdapter) ExecutablePath(runtimeName string, version string) (string, bool) {
	root := filepath.Join(a.Root, runtimeName, version)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return "", false
	}
	return findExecutable(root, runtimeName, 3)
}

// PlannedExecutablePath is where the executable would land after an
// install of the given version. Used for graphs describing runtimes
// not yet installed.
func (a StoreInspectorAdapter) PlannedExecutablePath(runtimeName string, version string) string {
	return filepath.Join(a.Root, runtimeName, version, "bin", shared.ExecutableFileName(runtimeName))
}

// findExecutable searches dir for the executable, trying
// platform-specific file names. On Windows .exe is preferred over
// .cmd when both exist at the same level.
func findExecutable(dir string, executable string, depth int) (string, bool) {
	candidates := []string{executable}
	if runtime.GOOS == "windows" {
		candidates = []string{executable + ".exe", executable + ".cmd", executable}
	}

	var subdirs []string
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}
	byName := make(map[string]bool, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			subdirs = append(subdirs, filepath.Join(dir, entry.Name()))
			continue
		}
		byName[entry.Name()] = true
	}
	for _, candidate := range candidates {
		if byName[candidate] {
			return filepath.Join(dir, candidate), true
		}
	}
	if depth <= 1 {
		return "", false
	}
	// bin/ is the conventional location; search it before siblings.
	sort.Slice(subdirs, func(i, j int) bool {
		bi := filepath.Base(subdirs[i]) == "bin"
		bj := filepath.Base(subdirs[j]) == "bin"
		if bi != bj {
			return bi
		}
		return subdirs[i] < subdirs[j]
	})
	for _, sub := range subdirs {
		if path, ok := findExecutable(sub, executable, depth-1); ok {
			return path, true
		}
	}
	return "", false
}

var _ ports.StorePort = StoreInspectorAdapter{}
