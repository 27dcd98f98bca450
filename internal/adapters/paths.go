package adapters

import (
	"os"
	"path/filepath"
)

// VxHome returns the vx data root. VX_HOME overrides the default of
// ~/.vx; a relative override is resolved against the current
// directory.
func VxHome() string {
	if home := os.Getenv("VX_HOME"); home != "" {
		if abs, err := filepath.Abs(home); err == nil {
			return abs
		}
		return home
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return ".vx"
	}
	return filepath.Join(userHome, ".vx")
}

// StoreDir is where managed runtime versions live, one directory per
// runtime/version pair.
func StoreDir() string {
	return filepath.Join(VxHome(), "store")
}

// ResolutionCacheDir holds persisted resolution graphs.
func ResolutionCacheDir() string {
	return filepath.Join(VxHome(), "cache", "resolutions")
}

// DownloadsDir holds in-flight archive downloads before extraction.
func DownloadsDir() string {
	return filepath.Join(VxHome(), "downloads")
}
