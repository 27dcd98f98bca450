package app

import "vx/internal/types"

// ResolveRequest asks for a resolution graph without executing
// anything.
type ResolveRequest struct {
	Tool       string
	Constraint string
	Args       []string
}

// ResolveResult carries the graph plus the name the catalog
// canonicalized the request to.
type ResolveResult struct {
	Runtime string
	Graph   types.ResolvedGraph
}

// RunRequest resolves a tool and executes it with Args.
type RunRequest struct {
	Tool       string
	Constraint string
	Args       []string
}

// RunResult reports the child process exit code.
type RunResult struct {
	Runtime  string
	ExitCode int
}

// InstallRequest installs a runtime (and, when requested, its missing
// dependencies) into the store.
type InstallRequest struct {
	Tool         string
	Constraint   string
	Dependencies bool
}

// InstallResult lists what was installed, dependency order preserved.
type InstallResult struct {
	Runtime   string
	Installed []string
}

// WhichRequest locates the executable a tool would resolve to.
type WhichRequest struct {
	Tool       string
	Constraint string
}

// WhichResult is the resolved executable path.
type WhichResult struct {
	Runtime    string
	Executable string
	Installed  bool
}

// ToolListing describes one catalog runtime and its local status for
// the list command.
type ToolListing struct {
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
	Status      string   `json:"status" yaml:"status"`
	Version     string   `json:"version,omitempty" yaml:"version,omitempty"`
	Path        string   `json:"path,omitempty" yaml:"path,omitempty"`
}

// CacheStatsResult summarizes the resolution cache for reporting.
type CacheStatsResult struct {
	Dir        string `json:"dir" yaml:"dir"`
	Entries    int    `json:"entries" yaml:"entries"`
	Expired    int    `json:"expired" yaml:"expired"`
	TotalBytes int64  `json:"total_bytes" yaml:"total_bytes"`
}
