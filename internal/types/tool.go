package types

// Platform identifies an operating system / architecture pair using
// the values of runtime.GOOS and runtime.GOARCH.
type Platform struct {
	OS   string `json:"os"`
	Arch string `json:"arch"`
}

// DependencySpec names a runtime that another runtime needs at
// execution time, with an optional version requirement.
type DependencySpec struct {
	Runtime string `json:"runtime"`

	// Requirement is a version constraint on the dependency: a semver
	// range for most ecosystems, a PEP 440 specifier set for Python
	// tools. Empty means any version is acceptable.
	Requirement string `json:"requirement,omitempty"`

	// Recommended is the version the installer should pick when the
	// dependency is absent and has to be installed.
	Recommended string `json:"recommended,omitempty"`

	Required bool   `json:"required"`
	Reason   string `json:"reason,omitempty"`

	// ProvidedBy names the runtime whose installation provides this
	// dependency (npm is provided by node). When set, resolution and
	// installation target the provider instead of the dependency name.
	ProvidedBy string `json:"provided_by,omitempty"`
}

// InstallVersion returns what to request when this dependency has to
// be installed: the recommended version when declared, otherwise the
// requirement range so the installer picks the newest satisfying
// release. Empty means latest.
func (d DependencySpec) InstallVersion() string {
	if d.Recommended != "" {
		return d.Recommended
	}
	return d.Requirement
}

// ToolSpec describes a runtime known to the provider catalog.
type ToolSpec struct {
	Name         string           `json:"name"`
	Description  string           `json:"description,omitempty"`
	Aliases      []string         `json:"aliases,omitempty"`
	Dependencies []DependencySpec `json:"dependencies,omitempty"`

	// Executable is the binary actually invoked when it differs from
	// the runtime name (uvx executes the uv binary).
	Executable string `json:"executable,omitempty"`

	// CommandPrefix is prepended verbatim before caller arguments
	// (uvx forwards as `uv tool run ...`).
	CommandPrefix []string `json:"command_prefix,omitempty"`

	// SupportedPlatforms restricts where the runtime can run.
	// Empty means every platform is supported.
	SupportedPlatforms []Platform `json:"supported_platforms,omitempty"`

	Ecosystem Ecosystem `json:"ecosystem,omitempty"`

	// Priority orders installs when several runtimes are pending;
	// higher installs first.
	Priority int `json:"priority,omitempty"`
}

// ExecutableName returns the binary name to invoke, defaulting to the
// runtime name.
func (s ToolSpec) ExecutableName() string {
	if s.Executable != "" {
		return s.Executable
	}
	return s.Name
}

// Matches reports whether name is the runtime's primary name or one of
// its aliases.
func (s ToolSpec) Matches(name string) bool {
	if s.Name == name {
		return true
	}
	for _, alias := range s.Aliases {
		if alias == name {
			return true
		}
	}
	return false
}

// RequiredDependencies filters Dependencies down to the required ones.
func (s ToolSpec) RequiredDependencies() []DependencySpec {
	var out []DependencySpec
	for _, dep := range s.Dependencies {
		if dep.Required {
			out = append(out, dep)
		}
	}
	return out
}

// SupportsPlatform reports whether the runtime is declared to work on
// the given platform. Specs with no platform table support everything.
func (s ToolSpec) SupportsPlatform(p Platform) bool {
	if len(s.SupportedPlatforms) == 0 {
		return true
	}
	for _, sp := range s.SupportedPlatforms {
		if sp.OS == p.OS && sp.Arch == p.Arch {
			return true
		}
	}
	return false
}

// ToolStatus describes where a runtime was found, if anywhere.
type ToolStatus struct {
	Kind StatusKind `json:"kind"`

	// Version is set only for vx-managed installs.
	Version string `json:"version,omitempty"`

	// Path is the executable location for vx-managed and system status.
	Path string `json:"path,omitempty"`
}

// IsAvailable reports whether the runtime can be executed as found.
func (s ToolStatus) IsAvailable() bool {
	return s.Kind == StatusVxManaged || s.Kind == StatusSystem
}

// ExecutablePath returns the executable location when available.
func (s ToolStatus) ExecutablePath() (string, bool) {
	if s.IsAvailable() {
		return s.Path, true
	}
	return "", false
}
