package ports

// LocatorPort searches the system PATH and well-known install
// locations for a binary outside the vx store.
type LocatorPort interface {
	// Locate returns the absolute path of a system-installed binary
	// for the given command name, appending platform suffixes (.exe)
	// as needed.
	Locate(name string) (string, bool)
}
