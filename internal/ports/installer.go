package ports

import "context"

// InstallerPort installs a runtime version into the vx store. Download
// execution, archive extraction, and checksum verification happen
// behind this boundary.
type InstallerPort interface {
	// Install places runtime@version into the store. An empty version
	// installs the provider's latest.
	Install(ctx context.Context, runtime string, version string) error
}
