package app

import (
	"time"

	"vx/internal/adapters"
	"vx/internal/catalog"
	"vx/internal/core"
	"vx/internal/ports"
	"vx/internal/types"
)

// Version is stamped at build time via -ldflags.
var Version = "dev"

type Service struct {
	Catalog   ports.CatalogPort
	Store     ports.StorePort
	Locator   ports.LocatorPort
	Project   ports.ProjectPort
	Installer ports.InstallerPort
	Executor  ports.ExecutorPort
	Cache     *core.ResolutionCache
	Config    types.ResolverConfig
	Clock     func() time.Time
}

func NewService(cfg types.ResolverConfig) Service {
	provider := adapters.NewReleaseProviderAdapter()
	cache := core.NewResolutionCache(adapters.ResolutionCacheDir(), cfg.CacheMode, cfg.CacheTTL)
	return Service{
		Catalog:   catalog.New(),
		Store:     adapters.NewStoreInspectorAdapter(adapters.StoreDir()),
		Locator:   adapters.NewSystemLocatorAdapter(),
		Project:   adapters.NewProjectContextAdapter(),
		Installer: adapters.NewHTTPInstallerAdapter(provider, adapters.StoreDir(), adapters.DownloadsDir()),
		Executor:  adapters.NewProcessExecutorAdapter(),
		Cache:     cache,
		Config:    cfg,
		Clock:     time.Now,
	}
}

// resolver assembles a ResolverCore over the service's ports.
func (s Service) resolver() core.ResolverCore {
	r := core.NewResolverCore(s.Catalog, s.Store, s.Locator, s.Project, s.Config)
	r.Cache = s.Cache
	r.VxVersion = Version
	return r
}

func (s Service) orchestrator() core.InstallOrchestrator {
	return core.NewInstallOrchestrator(s.Catalog, s.Installer, s.Store, s.Cache, s.Config)
}
