package ports

// StorePort inspects the vx-managed installation store
// ($VX_HOME/store/<runtime>/<version>/...).
type StorePort interface {
	// IsInstalled reports whether the exact runtime version is in the
	// store with a usable executable.
	IsInstalled(runtime string, version string) bool

	// ListVersions returns the store versions for a runtime, newest
	// first. Missing runtimes yield an empty slice, not an error.
	ListVersions(runtime string) ([]string, error)

	// ExecutablePath locates the executable for an installed version.
	ExecutablePath(runtime string, version string) (string, bool)

	// PlannedExecutablePath returns where the executable would live
	// once the version is installed.
	PlannedExecutablePath(runtime string, version string) string
}
