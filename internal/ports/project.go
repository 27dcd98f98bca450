package ports

// ProjectPort captures the directory-sensitive inputs that feed the
// resolution cache key: resolution varies by project because vx.toml
// and vx.lock vary by directory.
type ProjectPort interface {
	// Cwd returns the absolute working directory of the invocation.
	Cwd() string

	// ConfigDigest returns the sha256 of the nearest vx.toml found
	// walking upward from cwd, or false when none exists.
	ConfigDigest() (string, bool)

	// LockDigest returns the sha256 of the project lockfile, or false
	// when the project has none.
	LockDigest() (string, bool)
}
