package types

// IncompatibleDependency records a dependency that was found installed
// but at a version the dependent runtime cannot use.
type IncompatibleDependency struct {
	Runtime string `json:"runtime"`
	Reason  string `json:"reason"`
}

// ResolvedGraph is the resolver's output: what to execute and what has
// to be installed first. Non-fatal problems (missing or incompatible
// dependencies, unsupported platforms) are carried as fields so the
// caller can decide how to react.
type ResolvedGraph struct {
	// Runtime is the canonical, alias-resolved runtime name.
	Runtime string `json:"runtime"`

	// Executable is the path to invoke. For runtimes that still need
	// installing this is the planned store path, so the graph remains
	// useful to drive installation.
	Executable string `json:"executable"`

	CommandPrefix []string `json:"command_prefix,omitempty"`

	// MissingDependencies lists required dependencies not installed
	// anywhere, with no system fallback.
	MissingDependencies []string `json:"missing_dependencies,omitempty"`

	// InstallOrder lists every runtime that needs installing,
	// dependencies strictly before dependents, each name at most once.
	InstallOrder []string `json:"install_order,omitempty"`

	// InstallVersions maps runtimes in InstallOrder to the version to
	// request when installing them: the caller's pin for the root, the
	// recommended version or requirement range for dependencies. A
	// runtime absent from the map installs the provider's latest.
	InstallVersions map[string]string `json:"install_versions,omitempty"`

	RuntimeNeedsInstall bool `json:"runtime_needs_install"`

	IncompatibleDependencies []IncompatibleDependency `json:"incompatible_dependencies,omitempty"`

	// UnsupportedPlatformRuntimes lists dependencies whose spec declares
	// the current platform unsupported.
	UnsupportedPlatformRuntimes []string `json:"unsupported_platform_runtimes,omitempty"`
}

// SetInstallVersion records the version to request when installing a
// runtime from this graph's install order.
func (g *ResolvedGraph) SetInstallVersion(runtime string, version string) {
	if g.InstallVersions == nil {
		g.InstallVersions = map[string]string{}
	}
	g.InstallVersions[runtime] = version
}

// InstallVersionFor returns the version to install for a runtime,
// defaulting to "latest".
func (g ResolvedGraph) InstallVersionFor(runtime string) string {
	if version, ok := g.InstallVersions[runtime]; ok && version != "" {
		return version
	}
	return "latest"
}
