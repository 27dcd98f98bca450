package ports

import "vx/internal/types"

// CatalogPort is the provider catalog: the registry of runtimes vx
// knows how to resolve and install.
type CatalogPort interface {
	// IsKnown reports whether name matches a runtime or alias.
	IsKnown(name string) bool

	// GetSpec returns the spec for a runtime name or alias.
	GetSpec(name string) (types.ToolSpec, bool)

	// ResolveName maps a name or alias to the canonical runtime name.
	ResolveName(name string) (string, bool)

	// KnownTools returns all canonical runtime names, sorted.
	KnownTools() []string
}

// ProviderPort is the per-runtime download contract consumed by the
// installer. Archive handling and checksum verification live behind it.
type ProviderPort interface {
	// FetchVersions lists installable versions, newest first.
	FetchVersions(runtime string) ([]string, error)

	// DownloadURL returns the artifact URL for a runtime version on the
	// given platform.
	DownloadURL(runtime string, version string, platform types.Platform) (string, error)

	// ExecutableRelativePath returns the executable location relative
	// to the unpacked install directory.
	ExecutableRelativePath(runtime string, platform types.Platform) string
}
