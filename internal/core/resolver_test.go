package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"vx/internal/catalog"
	"vx/internal/types"
)

type fakeStore struct {
	versions map[string][]string
	paths    map[string]string
	listed   []string
}

func (f *fakeStore) IsInstalled(runtime string, version string) bool {
	_, ok := f.paths[runtime+"@"+version]
	return ok
}

func (f *fakeStore) ListVersions(runtime string) ([]string, error) {
	f.listed = append(f.listed, runtime)
	return f.versions[runtime], nil
}

func (f *fakeStore) ExecutablePath(runtime string, version string) (string, bool) {
	path, ok := f.paths[runtime+"@"+version]
	return path, ok
}

func (f *fakeStore) PlannedExecutablePath(runtime string, version string) string {
	return filepath.Join("/vx-store", runtime, version, "bin", runtime)
}

type fakeLocator map[string]string

func (f fakeLocator) Locate(name string) (string, bool) {
	path, ok := f[name]
	return path, ok
}

type fakeProject struct {
	cwd    string
	config string
	lock   string
}

func (f fakeProject) Cwd() string { return f.cwd }

func (f fakeProject) ConfigDigest() (string, bool) { return f.config, f.config != "" }

func (f fakeProject) LockDigest() (string, bool) { return f.lock, f.lock != "" }

func testCatalog() *catalog.Catalog {
	c := catalog.Empty()
	c.Register(types.ToolSpec{Name: "node", Aliases: []string{"nodejs"}, Ecosystem: types.EcosystemNode})
	c.Register(types.ToolSpec{
		Name:      "yarn",
		Ecosystem: types.EcosystemNode,
		Dependencies: []types.DependencySpec{
			{Runtime: "node", Requirement: ">=12.0.0", Recommended: "20", Required: true},
		},
	})
	c.Register(types.ToolSpec{
		Name:          "uvx",
		Executable:    "uv",
		CommandPrefix: []string{"tool", "run"},
		Ecosystem:     types.EcosystemPython,
		Dependencies: []types.DependencySpec{
			{Runtime: "uv", Required: true},
		},
	})
	c.Register(types.ToolSpec{Name: "uv", Ecosystem: types.EcosystemGeneric})
	return c
}

func newTestResolver(cat *catalog.Catalog, store *fakeStore, locator fakeLocator) ResolverCore {
	r := NewResolverCore(cat, store, locator, fakeProject{cwd: "/project"}, types.DefaultResolverConfig())
	r.Platform = types.Platform{OS: "linux", Arch: "amd64"}
	return r
}

func TestResolveSystemInstalled(t *testing.T) {
	store := &fakeStore{}
	locator := fakeLocator{"node": "/usr/bin/node"}
	resolver := newTestResolver(testCatalog(), store, locator)

	graph, err := resolver.Resolve(t.Context(), "node", "", nil)
	require.NoError(t, err)
	require.Equal(t, "node", graph.Runtime)
	require.Equal(t, "/usr/bin/node", graph.Executable)
	require.False(t, graph.RuntimeNeedsInstall)
	require.Empty(t, graph.InstallOrder)
	require.Empty(t, graph.MissingDependencies)
}

func TestResolveAliasCanonicalizes(t *testing.T) {
	store := &fakeStore{}
	locator := fakeLocator{"node": "/usr/bin/node"}
	resolver := newTestResolver(testCatalog(), store, locator)

	graph, err := resolver.Resolve(t.Context(), "nodejs", "", nil)
	require.NoError(t, err)
	require.Equal(t, "node", graph.Runtime)
}

func TestResolveUnknownTool(t *testing.T) {
	resolver := newTestResolver(testCatalog(), &fakeStore{}, fakeLocator{})

	_, err := resolver.Resolve(t.Context(), "not-a-tool", "", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unknown tool")
}

func TestResolveMissingRootAndDependency(t *testing.T) {
	store := &fakeStore{}
	resolver := newTestResolver(testCatalog(), store, fakeLocator{})

	graph, err := resolver.Resolve(t.Context(), "yarn", "", nil)
	require.NoError(t, err)
	require.True(t, graph.RuntimeNeedsInstall)

	// Dependencies install strictly before dependents.
	want := []string{"node", "yarn"}
	if diff := cmp.Diff(want, graph.InstallOrder); diff != "" {
		t.Fatalf("unexpected install order (-want +got):\n%s", diff)
	}
	require.Contains(t, graph.MissingDependencies, "node")
	require.Equal(t, store.PlannedExecutablePath("yarn", "latest"), graph.Executable)
}

func TestResolveRecordsDependencyInstallVersion(t *testing.T) {
	resolver := newTestResolver(testCatalog(), &fakeStore{}, fakeLocator{})

	graph, err := resolver.Resolve(t.Context(), "yarn", "", nil)
	require.NoError(t, err)

	// The recommended version wins for missing dependencies; the
	// unpinned root carries no entry and installs latest.
	require.Equal(t, "20", graph.InstallVersions["node"])
	require.Equal(t, "20", graph.InstallVersionFor("node"))
	require.NotContains(t, graph.InstallVersions, "yarn")
	require.Equal(t, "latest", graph.InstallVersionFor("yarn"))
}

func TestResolveRecordsRequirementWhenNoRecommendation(t *testing.T) {
	cat := catalog.Empty()
	cat.Register(types.ToolSpec{Name: "uv", Ecosystem: types.EcosystemGeneric})
	cat.Register(types.ToolSpec{
		Name:      "ruff",
		Ecosystem: types.EcosystemPython,
		Dependencies: []types.DependencySpec{
			{Runtime: "uv", Requirement: ">=0.4.0", Required: true},
		},
	})
	resolver := newTestResolver(cat, &fakeStore{}, fakeLocator{})

	graph, err := resolver.Resolve(t.Context(), "ruff", "", nil)
	require.NoError(t, err)
	require.Equal(t, ">=0.4.0", graph.InstallVersionFor("uv"))
}

func TestResolveRecordsRootPinInstallVersion(t *testing.T) {
	resolver := newTestResolver(testCatalog(), &fakeStore{}, fakeLocator{})

	graph, err := resolver.Resolve(t.Context(), "node", "18.20.4", nil)
	require.NoError(t, err)
	require.True(t, graph.RuntimeNeedsInstall)
	require.Equal(t, "18.20.4", graph.InstallVersionFor("node"))
}

func TestResolveDependencySatisfiedBySystem(t *testing.T) {
	store := &fakeStore{}
	locator := fakeLocator{"node": "/usr/bin/node"}
	resolver := newTestResolver(testCatalog(), store, locator)

	graph, err := resolver.Resolve(t.Context(), "yarn", "", nil)
	require.NoError(t, err)
	require.True(t, graph.RuntimeNeedsInstall)
	require.Equal(t, []string{"yarn"}, graph.InstallOrder)
	require.Empty(t, graph.MissingDependencies)
}

func TestResolveVersionPinPerStore(t *testing.T) {
	store := &fakeStore{
		versions: map[string][]string{"node": {"22.1.0", "20.11.1"}},
		paths: map[string]string{
			"node@22.1.0":  "/vx-store/node/22.1.0/bin/node",
			"node@20.11.1": "/vx-store/node/20.11.1/bin/node",
		},
	}
	resolver := newTestResolver(testCatalog(), store, fakeLocator{})

	graph, err := resolver.Resolve(t.Context(), "node", "20.11.1", nil)
	require.NoError(t, err)
	require.False(t, graph.RuntimeNeedsInstall)
	require.Equal(t, "/vx-store/node/20.11.1/bin/node", graph.Executable)
}

func TestResolveVersionMismatchRecorded(t *testing.T) {
	store := &fakeStore{
		versions: map[string][]string{"node": {"10.0.0"}},
		paths:    map[string]string{"node@10.0.0": "/vx-store/node/10.0.0/bin/node"},
	}
	resolver := newTestResolver(testCatalog(), store, fakeLocator{})

	graph, err := resolver.Resolve(t.Context(), "node", ">=20.0.0", nil)
	require.NoError(t, err)
	require.True(t, graph.RuntimeNeedsInstall)
	require.Len(t, graph.IncompatibleDependencies, 1)
	require.Equal(t, "node", graph.IncompatibleDependencies[0].Runtime)
}

func TestResolveOptionalDependencySkipped(t *testing.T) {
	cat := testCatalog()
	cat.Register(types.ToolSpec{
		Name: "docs-tool",
		Dependencies: []types.DependencySpec{
			{Runtime: "node", Required: false},
		},
	})
	locator := fakeLocator{"docs-tool": "/usr/bin/docs-tool"}
	resolver := newTestResolver(cat, &fakeStore{}, locator)

	graph, err := resolver.Resolve(t.Context(), "docs-tool", "", nil)
	require.NoError(t, err)
	require.Empty(t, graph.InstallOrder)
	require.Empty(t, graph.MissingDependencies)
}

func TestResolveProvidedByTargetsProvider(t *testing.T) {
	store := &fakeStore{}
	resolver := newTestResolver(testCatalog(), store, fakeLocator{})

	graph, err := resolver.Resolve(t.Context(), "uvx", "", nil)
	require.NoError(t, err)
	require.Equal(t, []string{"tool", "run"}, graph.CommandPrefix)
	require.Contains(t, graph.InstallOrder, "uv")
	require.Contains(t, graph.InstallOrder, "uvx")
	require.Less(t,
		indexOf(graph.InstallOrder, "uv"),
		indexOf(graph.InstallOrder, "uvx"))
}

func TestResolveCycleDetected(t *testing.T) {
	cat := catalog.Empty()
	cat.Register(types.ToolSpec{
		Name:         "a",
		Dependencies: []types.DependencySpec{{Runtime: "b", Required: true}},
	})
	cat.Register(types.ToolSpec{
		Name:         "b",
		Dependencies: []types.DependencySpec{{Runtime: "a", Required: true}},
	})
	resolver := newTestResolver(cat, &fakeStore{}, fakeLocator{})

	_, err := resolver.Resolve(t.Context(), "a", "", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "cyclic tool dependency")
}

func TestResolveSharedDependencyNotDuplicated(t *testing.T) {
	cat := catalog.Empty()
	cat.Register(types.ToolSpec{Name: "base"})
	cat.Register(types.ToolSpec{
		Name:         "mid",
		Dependencies: []types.DependencySpec{{Runtime: "base", Required: true}},
	})
	cat.Register(types.ToolSpec{
		Name: "top",
		Dependencies: []types.DependencySpec{
			{Runtime: "base", Required: true},
			{Runtime: "mid", Required: true},
		},
	})
	resolver := newTestResolver(cat, &fakeStore{}, fakeLocator{})

	graph, err := resolver.Resolve(t.Context(), "top", "", nil)
	require.NoError(t, err)
	seen := map[string]int{}
	for _, runtime := range graph.InstallOrder {
		seen[runtime]++
		require.Equal(t, 1, seen[runtime], "duplicate in install order: %s", runtime)
	}
	require.Less(t, indexOf(graph.InstallOrder, "base"), indexOf(graph.InstallOrder, "mid"))
	require.Less(t, indexOf(graph.InstallOrder, "mid"), indexOf(graph.InstallOrder, "top"))
}

func TestResolveUnsupportedPlatformDependency(t *testing.T) {
	cat := testCatalog()
	cat.Register(types.ToolSpec{
		Name:               "win-helper",
		SupportedPlatforms: []types.Platform{{OS: "windows", Arch: "amd64"}},
	})
	cat.Register(types.ToolSpec{
		Name:         "builder",
		Dependencies: []types.DependencySpec{{Runtime: "win-helper", Required: true}},
	})
	locator := fakeLocator{"builder": "/usr/bin/builder"}
	resolver := newTestResolver(cat, &fakeStore{}, locator)

	graph, err := resolver.Resolve(t.Context(), "builder", "", nil)
	require.NoError(t, err)
	require.Contains(t, graph.UnsupportedPlatformRuntimes, "win-helper")
	require.NotContains(t, graph.InstallOrder, "win-helper")
}

func TestResolveUnsupportedRootFails(t *testing.T) {
	cat := catalog.Empty()
	cat.Register(types.ToolSpec{
		Name:               "msvc",
		SupportedPlatforms: []types.Platform{{OS: "windows", Arch: "amd64"}},
	})
	resolver := newTestResolver(cat, &fakeStore{}, fakeLocator{})

	_, err := resolver.Resolve(t.Context(), "msvc", "", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "not supported")
}

func TestResolveDeterministic(t *testing.T) {
	resolver := newTestResolver(testCatalog(), &fakeStore{}, fakeLocator{})

	first, err := resolver.Resolve(t.Context(), "yarn", "", nil)
	require.NoError(t, err)
	second, err := resolver.Resolve(t.Context(), "yarn", "", nil)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("resolution not deterministic (-first +second):\n%s", diff)
	}
}

func TestResolveUsesCache(t *testing.T) {
	dir := t.TempDir()
	exe := filepath.Join(dir, "node")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))

	store := &fakeStore{}
	locator := fakeLocator{"node": exe}
	resolver := newTestResolver(testCatalog(), store, locator)
	resolver.Cache = NewResolutionCache(filepath.Join(dir, "cache"), types.CacheModeNormal, 0)

	first, err := resolver.Resolve(t.Context(), "node", "", nil)
	require.NoError(t, err)

	// Second resolution must come from the cache, not the locator.
	delete(locator, "node")
	second, err := resolver.Resolve(t.Context(), "node", "", nil)
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("cached graph differs (-first +second):\n%s", diff)
	}
}

func TestCacheKeyVariesByInputs(t *testing.T) {
	resolver := newTestResolver(testCatalog(), &fakeStore{}, fakeLocator{})

	base := resolver.CacheKey("node", "20", nil).Digest()
	require.NotEqual(t, base, resolver.CacheKey("node", "22", nil).Digest())
	require.NotEqual(t, base, resolver.CacheKey("yarn", "20", nil).Digest())
	require.NotEqual(t, base, resolver.CacheKey("node", "20", []string{"--eval", "1"}).Digest())

	other := resolver
	other.Project = fakeProject{cwd: "/elsewhere"}
	require.NotEqual(t, base, other.CacheKey("node", "20", nil).Digest())

	offline := resolver
	offline.Config.FallbackToSystem = false
	require.NotEqual(t, base, offline.CacheKey("node", "20", nil).Digest())
}

func indexOf(list []string, value string) int {
	for i, item := range list {
		if item == value {
			return i
		}
	}
	return -1
}

func TestParseToolRequest(t *testing.T) {
	name, constraint, err := ParseToolRequest("node@20.11.1")
	require.NoError(t, err)
	require.Equal(t, "node", name)
	require.Equal(t, "20.11.1", constraint)

	name, constraint, err = ParseToolRequest("node")
	require.NoError(t, err)
	require.Equal(t, "node", name)
	require.Empty(t, constraint)

	_, _, err = ParseToolRequest("")
	require.Error(t, err)
	_, _, err = ParseToolRequest("node@")
	require.Error(t, err)
	_, _, err = ParseToolRequest("@20")
	require.Error(t, err)
}

func TestConstraintMatcher(t *testing.T) {
	m, err := newConstraintMatcher(types.EcosystemNode, ">=20.0.0 <23.0.0")
	require.NoError(t, err)
	require.True(t, m.Matches("20.11.1"))
	require.True(t, m.Matches("22.0.0"))
	require.False(t, m.Matches("18.19.0"))
	require.False(t, m.Matches("not-a-version"))

	any, err := newConstraintMatcher(types.EcosystemNode, "latest")
	require.NoError(t, err)
	require.True(t, any.Matches("0.0.1"))

	pin, err := newConstraintMatcher(types.EcosystemPython, "3.12.1")
	require.NoError(t, err)
	require.True(t, pin.Matches("3.12.1"))
	require.False(t, pin.Matches("3.12.2"))

	pep, err := newConstraintMatcher(types.EcosystemPython, ">=3.11,<3.13")
	require.NoError(t, err)
	require.True(t, pep.Matches("3.12.0"))
	require.False(t, pep.Matches("3.13.0"))

	_, err = newConstraintMatcher(types.EcosystemNode, ">>nonsense")
	require.Error(t, err)
	require.True(t, strings.Contains(err.Error(), "invalid version constraint"))
}
