package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"vx/internal/policies"
	"vx/internal/ports"
	"vx/internal/shared"
	"vx/internal/types"
)

// ResolverCore builds resolution graphs: given a runtime request it
// decides what executable to invoke and which runtimes must be
// installed first, consulting the resolution cache before probing the
// store and system PATH.
type ResolverCore struct {
	Catalog ports.CatalogPort
	Store   ports.StorePort
	Locator ports.LocatorPort
	Project ports.ProjectPort

	// Cache is optional; a nil cache disables memoization entirely.
	Cache *ResolutionCache

	Config    types.ResolverConfig
	Platform  types.Platform
	VxVersion string
}

func NewResolverCore(catalog ports.CatalogPort, store ports.StorePort, locator ports.LocatorPort, project ports.ProjectPort, cfg types.ResolverConfig) ResolverCore {
	return ResolverCore{
		Catalog:   catalog,
		Store:     store,
		Locator:   locator,
		Project:   project,
		Config:    cfg,
		Platform:  types.CurrentPlatform(),
		VxVersion: "dev",
	}
}

// Resolve is the single resolution entry point.
//
// Unknown tools fail before the cache is consulted: they are cheap to
// detect and the catalog may gain entries without invalidating cached
// graphs. args carries caller-relevant inputs beyond runtime/version
// and only feeds the cache key digest.
func (r ResolverCore) Resolve(ctx context.Context, runtimeName string, constraint string, args []string) (types.ResolvedGraph, error) {
	if r.Catalog == nil || r.Store == nil || r.Locator == nil {
		return types.ResolvedGraph{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("resolver requires catalog, store, and locator ports")
	}

	canonical, ok := r.Catalog.ResolveName(runtimeName)
	if !ok {
		return types.ResolvedGraph{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("unknown tool: %s", runtimeName))
	}

	key := r.CacheKey(canonical, constraint, args)
	if r.Cache != nil {
		if graph, ok := r.Cache.Get(key); ok {
			log.Ctx(ctx).Debug().Str("runtime", canonical).Msg("resolution cache hit")
			return graph, nil
		}
		log.Ctx(ctx).Debug().Str("runtime", canonical).Msg("resolution cache miss")
	}

	graph, err := r.buildGraph(ctx, canonical, constraint)
	if err != nil {
		return types.ResolvedGraph{}, err
	}

	if r.Cache != nil {
		// Caching is best-effort; a failed write never fails resolution.
		if err := r.Cache.Set(key, graph); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("runtime", canonical).Msg("resolution cache write failed")
		}
	}
	return graph, nil
}

// CacheKey builds the cache slot identity for a resolution request.
// Every input that feeds graph construction is included so that two
// invocations producing different graphs can never share a slot.
func (r ResolverCore) CacheKey(runtime string, constraint string, args []string) ResolutionCacheKey {
	key := ResolutionCacheKey{
		SchemaVersion:    ResolutionCacheSchemaVersion,
		VxVersion:        r.VxVersion,
		OS:               r.Platform.OS,
		Arch:             r.Platform.Arch,
		Runtime:          runtime,
		Version:          constraint,
		ArgsDigest:       shared.Sha256Hex([]byte(strings.Join(args, "\x00"))),
		PreferVxManaged:  r.Config.PreferVxManaged,
		FallbackToSystem: r.Config.FallbackToSystem,
	}
	if r.Project != nil {
		key.Cwd = r.Project.Cwd()
		if digest, ok := r.Project.ConfigDigest(); ok {
			key.ConfigDigest = digest
		}
		if digest, ok := r.Project.LockDigest(); ok {
			key.LockDigest = digest
		}
	}
	return key
}

func (r ResolverCore) buildGraph(ctx context.Context, canonical string, constraint string) (types.ResolvedGraph, error) {
	spec, _ := r.Catalog.GetSpec(canonical)
	if err := ValidateToolSpec(ctx, spec); err != nil {
		return types.ResolvedGraph{}, err
	}
	policy := policies.NewSourcePolicy(r.Store, r.Locator, r.Config)

	matcher, err := newConstraintMatcher(spec.Ecosystem, constraint)
	if err != nil {
		return types.ResolvedGraph{}, err
	}

	graph := types.ResolvedGraph{
		Runtime:       canonical,
		CommandPrefix: spec.CommandPrefix,
	}

	rootSupported := spec.SupportsPlatform(r.Platform)
	if !rootSupported {
		graph.UnsupportedPlatformRuntimes = append(graph.UnsupportedPlatformRuntimes, canonical)
	}

	rootStatus := policy.DetermineStatus(spec, constraint, matcher.Matches)

	// An unsupported root with no usable binary cannot produce a
	// meaningful graph: installing it here would never work.
	if !rootSupported && !rootStatus.IsAvailable() {
		return types.ResolvedGraph{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("%s is not supported on %s/%s", canonical, r.Platform.OS, r.Platform.Arch))
	}

	st := &walkState{
		policy:  policy,
		visited: map[string]bool{},
		onPath:  map[string]bool{canonical: true},
		path:    []string{canonical},
	}
	if err := r.walkDependencies(ctx, spec, st, &graph); err != nil {
		return types.ResolvedGraph{}, err
	}

	if !rootStatus.IsAvailable() {
		graph.RuntimeNeedsInstall = true
		graph.InstallOrder = appendUnique(graph.InstallOrder, canonical)
		if constraint != "" && constraint != "latest" {
			graph.SetInstallVersion(canonical, constraint)
		}
		r.recordVersionMismatch(canonical, constraint, matcher, &graph)
	}

	graph.Executable = r.executableFor(spec, canonical, constraint, rootStatus)
	log.Ctx(ctx).Debug().
		Str("runtime", canonical).
		Str("executable", graph.Executable).
		Int("install_order", len(graph.InstallOrder)).
		Msg("resolution graph built")
	return graph, nil
}

// walkState carries the DFS bookkeeping. onPath/path detect cycles in
// the catalog, which is hand-authored and must stay a DAG; visited
// dedups runtimes required by several dependents.
type walkState struct {
	policy  policies.SourcePolicy
	visited map[string]bool
	onPath  map[string]bool
	path    []string
}

// walkDependencies resolves each required dependency of spec the same
// way the root was resolved, depth-first so dependencies land in
// InstallOrder before their dependents. Only the root resolution is
// cache-keyed; nested lookups never touch the cache.
func (r ResolverCore) walkDependencies(ctx context.Context, spec types.ToolSpec, st *walkState, graph *types.ResolvedGraph) error {
	for _, dep := range spec.Dependencies {
		target := dep.Runtime
		if dep.ProvidedBy != "" {
			target = dep.ProvidedBy
		}

		canonical, known := r.Catalog.ResolveName(target)
		if !known {
			if dep.Required {
				graph.MissingDependencies = appendUnique(graph.MissingDependencies, target)
			}
			continue
		}

		if st.onPath[canonical] {
			chain := strings.Join(append(st.path, canonical), " -> ")
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("cyclic tool dependency: %s", chain))
		}
		if st.visited[canonical] {
			continue
		}
		st.visited[canonical] = true

		depSpec, _ := r.Catalog.GetSpec(canonical)
		if !depSpec.SupportsPlatform(r.Platform) {
			graph.UnsupportedPlatformRuntimes = appendUnique(graph.UnsupportedPlatformRuntimes, canonical)
			continue
		}

		matcher, err := newConstraintMatcher(depSpec.Ecosystem, dep.Requirement)
		if err != nil {
			return err
		}
		status := st.policy.DetermineStatus(depSpec, dep.Requirement, matcher.Matches)

		if status.IsAvailable() {
			if status.Kind == types.StatusVxManaged && dep.Requirement != "" && !matcher.Matches(status.Version) {
				graph.IncompatibleDependencies = append(graph.IncompatibleDependencies, types.IncompatibleDependency{
					Runtime: canonical,
					Reason:  fmt.Sprintf("installed version %s does not satisfy %s (required by %s)", status.Version, dep.Requirement, spec.Name),
				})
			}
			continue
		}

		if !dep.Required {
			// Optional dependencies that resolve nowhere are skipped
			// silently.
			continue
		}

		// Walk the dependency's own requirements first so they install
		// before it.
		st.onPath[canonical] = true
		st.path = append(st.path, canonical)
		if err := r.walkDependencies(ctx, depSpec, st, graph); err != nil {
			return err
		}
		st.path = st.path[:len(st.path)-1]
		delete(st.onPath, canonical)

		graph.MissingDependencies = appendUnique(graph.MissingDependencies, canonical)
		graph.InstallOrder = appendUnique(graph.InstallOrder, canonical)
		if version := dep.InstallVersion(); version != "" {
			graph.SetInstallVersion(canonical, version)
		}
		r.recordVersionMismatch(canonical, dep.Requirement, matcher, graph)
	}
	return nil
}

// recordVersionMismatch reports store versions that exist but cannot
// satisfy a pinned constraint, so the caller can explain why a runtime
// that looks installed still needs work.
func (r ResolverCore) recordVersionMismatch(runtime string, constraint string, matcher constraintMatcher, graph *types.ResolvedGraph) {
	if constraint == "" || constraint == "latest" {
		return
	}
	versions, err := r.Store.ListVersions(runtime)
	if err != nil || len(versions) == 0 {
		return
	}
	for _, version := range versions {
		if matcher.Matches(version) {
			return
		}
	}
	graph.IncompatibleDependencies = append(graph.IncompatibleDependencies, types.IncompatibleDependency{
		Runtime: runtime,
		Reason:  fmt.Sprintf("store versions %s do not satisfy %s", strings.Join(versions, ", "), constraint),
	})
}

// executableFor picks the path to invoke. Runtimes that still need
// installing get their planned store path so the graph can drive
// installation and a later re-resolution.
func (r ResolverCore) executableFor(spec types.ToolSpec, canonical string, constraint string, status types.ToolStatus) string {
	if path, ok := status.ExecutablePath(); ok {
		return path
	}
	version := "latest"
	if constraint != "" && constraint != "latest" && shared.IsExactVersion(constraint) {
		version = constraint
	}
	return r.Store.PlannedExecutablePath(canonical, version)
}

func appendUnique(list []string, value string) []string {
	for _, existing := range list {
		if existing == value {
			return list
		}
	}
	return append(list, value)
}
