package policies

import (
	"vx/internal/ports"
	"vx/internal/shared"
	"vx/internal/types"
)

// VersionMatch reports whether an installed version satisfies the
// requested constraint. The resolver supplies ecosystem-aware matching
// so the policy stays free of version-scheme knowledge.
type VersionMatch func(version string) bool

// SourcePolicy decides where a runtime should be executed from: the
// vx-managed store, a system-installed binary, or nowhere (needs
// install). The precedence is fixed per invocation by ResolverConfig.
type SourcePolicy struct {
	Store   ports.StorePort
	Locator ports.LocatorPort
	Config  types.ResolverConfig
}

func NewSourcePolicy(store ports.StorePort, locator ports.LocatorPort, cfg types.ResolverConfig) SourcePolicy {
	return SourcePolicy{
		Store:   store,
		Locator: locator,
		Config:  cfg,
	}
}

// DetermineStatus applies the source precedence for one runtime.
//
// An absent or "latest" constraint is satisfied by any installed
// version; matches handles everything else.
func (p SourcePolicy) DetermineStatus(spec types.ToolSpec, constraint string, matches VersionMatch) types.ToolStatus {
	anyVersion := constraint == "" || constraint == "latest"
	exeName := shared.ExecutableFileName(spec.ExecutableName())

	if p.Config.PreferVxManaged {
		if status, ok := p.storeStatus(spec.Name, constraint, anyVersion, matches); ok {
			return status
		}
	}

	if p.Config.FallbackToSystem {
		if path, ok := p.Locator.Locate(exeName); ok {
			return types.ToolStatus{Kind: types.StatusSystem, Path: path}
		}
	}

	if !p.Config.PreferVxManaged {
		if status, ok := p.storeStatus(spec.Name, constraint, anyVersion, matches); ok {
			return status
		}
	}

	// A pinned constraint with only non-matching store versions still
	// resolves to the store when nothing better exists; the resolver
	// reports the mismatch separately.
	if anyVersion {
		if status, ok := p.anyStoreVersion(spec.Name); ok {
			return status
		}
	}

	return types.ToolStatus{Kind: types.StatusNotInstalled}
}

// storeStatus returns a vx-managed status for the newest store version
// satisfying the constraint. An exact pin checks the store directly
// before falling back to the version scan.
func (p SourcePolicy) storeStatus(runtime string, constraint string, anyVersion bool, matches VersionMatch) (types.ToolStatus, bool) {
	if !anyVersion && shared.IsExactVersion(constraint) && p.Store.IsInstalled(runtime, constraint) {
		if path, ok := p.Store.ExecutablePath(runtime, constraint); ok {
			return types.ToolStatus{
				Kind:    types.StatusVxManaged,
				Version: constraint,
				Path:    path,
			}, true
		}
	}

	versions, err := p.Store.ListVersions(runtime)
	if err != nil {
		return types.ToolStatus{}, false
	}
	for _, version := range versions {
		if !anyVersion && matches != nil && !matches(version) {
			continue
		}
		if path, ok := p.Store.ExecutablePath(runtime, version); ok {
			return types.ToolStatus{
				Kind:    types.StatusVxManaged,
				Version: version,
				Path:    path,
			}, true
		}
	}
	return types.ToolStatus{}, false
}

func (p SourcePolicy) anyStoreVersion(runtime string) (types.ToolStatus, bool) {
	return p.storeStatus(runtime, "", true, nil)
}
