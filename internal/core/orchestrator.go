package core

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"vx/internal/ports"
	"vx/internal/types"
)

// InstallOrchestrator drives the install plan of a resolved graph:
// runtimes install in dependency waves, each wave fanned out over a
// bounded worker pool. A wave only starts after every runtime it
// depends on has finished.
type InstallOrchestrator struct {
	Catalog   ports.CatalogPort
	Installer ports.InstallerPort
	Store     ports.StorePort

	// Cache, when set, is invalidated per runtime after a successful
	// install so stale not-installed graphs cannot be served.
	Cache *ResolutionCache

	Config types.ResolverConfig
}

func NewInstallOrchestrator(catalog ports.CatalogPort, installer ports.InstallerPort, store ports.StorePort, cache *ResolutionCache, cfg types.ResolverConfig) InstallOrchestrator {
	return InstallOrchestrator{
		Catalog:   catalog,
		Installer: installer,
		Store:     store,
		Cache:     cache,
		Config:    cfg,
	}
}

// InstallPlan installs every runtime in graph.InstallOrder. The first
// failure cancels outstanding work and is returned; runtimes already
// finished stay installed.
func (o InstallOrchestrator) InstallPlan(ctx context.Context, graph types.ResolvedGraph) error {
	if len(graph.InstallOrder) == 0 {
		return nil
	}
	if o.Installer == nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("no installer configured")
	}

	waves := o.planWaves(graph.InstallOrder)
	for _, wave := range waves {
		if err := o.installWave(ctx, wave, graph); err != nil {
			return err
		}
	}
	return nil
}

// planWaves groups the install order into batches that may run in
// parallel. A runtime joins a wave once none of its catalog
// dependencies remain in a later position of the plan.
func (o InstallOrchestrator) planWaves(order []string) [][]string {
	pending := make(map[string]bool, len(order))
	for _, runtime := range order {
		pending[runtime] = true
	}

	var waves [][]string
	remaining := append([]string(nil), order...)
	for len(remaining) > 0 {
		var wave, next []string
		for _, runtime := range remaining {
			if o.dependsOnPending(runtime, pending, runtime) {
				next = append(next, runtime)
			} else {
				wave = append(wave, runtime)
			}
		}
		if len(wave) == 0 {
			// Unsatisfiable ordering; fall back to strict sequence so
			// progress is still made.
			wave, next = []string{remaining[0]}, remaining[1:]
		}
		for _, runtime := range wave {
			delete(pending, runtime)
		}
		// Higher-priority runtimes dispatch first within a wave.
		sort.SliceStable(wave, func(i, j int) bool {
			return o.priorityOf(wave[i]) > o.priorityOf(wave[j])
		})
		waves = append(waves, wave)
		remaining = next
	}
	return waves
}

func (o InstallOrchestrator) priorityOf(runtime string) int {
	spec, ok := o.Catalog.GetSpec(runtime)
	if !ok {
		return 0
	}
	return spec.Priority
}

// dependsOnPending reports whether runtime transitively requires any
// runtime still pending, excluding self so provided-by self loops do
// not stall a wave.
func (o InstallOrchestrator) dependsOnPending(runtime string, pending map[string]bool, self string) bool {
	spec, ok := o.Catalog.GetSpec(runtime)
	if !ok {
		return false
	}
	for _, dep := range spec.Dependencies {
		target := dep.Runtime
		if dep.ProvidedBy != "" {
			target = dep.ProvidedBy
		}
		canonical, known := o.Catalog.ResolveName(target)
		if !known || canonical == self {
			continue
		}
		if pending[canonical] {
			return true
		}
		if o.dependsOnPending(canonical, pending, self) {
			return true
		}
	}
	return false
}

func (o InstallOrchestrator) installWave(ctx context.Context, wave []string, graph types.ResolvedGraph) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workerCount := o.Config.MaxParallelInstalls
	if workerCount <= 0 {
		workerCount = 1
	}
	if len(wave) < workerCount {
		workerCount = len(wave)
	}

	tasks := make(chan string)
	results := make(chan error, len(wave))
	var wg sync.WaitGroup
	for i := 0; i < workerCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for runtime := range tasks {
				if ctx.Err() != nil {
					results <- ctx.Err()
					continue
				}
				results <- o.installOne(ctx, runtime, graph.InstallVersionFor(runtime))
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()
	for _, runtime := range wave {
		tasks <- runtime
	}
	close(tasks)

	var firstErr error
	for err := range results {
		if err != nil && firstErr == nil {
			firstErr = err
			cancel()
		}
	}
	return firstErr
}

func (o InstallOrchestrator) installOne(ctx context.Context, runtime string, version string) error {
	installCtx := ctx
	if o.Config.InstallTimeout > 0 {
		var cancel context.CancelFunc
		installCtx, cancel = context.WithTimeout(ctx, o.Config.InstallTimeout)
		defer cancel()
	}

	started := time.Now()
	log.Ctx(ctx).Info().Str("runtime", runtime).Str("version", version).Msg("installing runtime")
	if err := o.Installer.Install(installCtx, runtime, version); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to install %s", runtime)).
			WithCause(err)
	}

	if o.Config.VerifyAfterInstall && o.Store != nil {
		versions, verr := o.Store.ListVersions(runtime)
		if verr != nil || len(versions) == 0 {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("%s reported installed but store has no usable version", runtime))
		}
	}

	if o.Cache != nil {
		if _, err := o.Cache.InvalidateRuntime(runtime); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("runtime", runtime).Msg("cache invalidation failed")
		}
	}
	log.Ctx(ctx).Info().
		Str("runtime", runtime).
		Dur("elapsed", time.Since(started)).
		Msg("runtime installed")
	return nil
}
