package core

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"vx/internal/types"
)

func testKey(runtime string) ResolutionCacheKey {
	return ResolutionCacheKey{
		SchemaVersion:    ResolutionCacheSchemaVersion,
		VxVersion:        "test",
		OS:               "linux",
		Arch:             "amd64",
		Cwd:              "/project",
		Runtime:          runtime,
		Version:          "latest",
		ArgsDigest:       "digest",
		PreferVxManaged:  true,
		FallbackToSystem: true,
	}
}

func testGraph(runtime string) types.ResolvedGraph {
	return types.ResolvedGraph{
		Runtime:             runtime,
		Executable:          "relative-placeholder",
		RuntimeNeedsInstall: false,
	}
}

func newTestCache(t *testing.T, mode types.CacheMode) *ResolutionCache {
	t.Helper()
	return NewResolutionCache(t.TempDir(), mode, 15*time.Minute)
}

func TestCacheRoundTrip(t *testing.T) {
	cache := newTestCache(t, types.CacheModeNormal)
	key := testKey("node")
	graph := testGraph("node")

	require.NoError(t, cache.Set(key, graph))
	got, ok := cache.Get(key)
	require.True(t, ok)
	if diff := cmp.Diff(graph, got); diff != "" {
		t.Fatalf("cached graph differs (-want +got):\n%s", diff)
	}

	_, ok = cache.Get(testKey("yarn"))
	require.False(t, ok)
}

func TestCacheTTLBoundaryInclusive(t *testing.T) {
	cache := newTestCache(t, types.CacheModeNormal)
	key := testKey("node")

	created := time.Now().Add(-time.Hour)
	cache.Now = func() time.Time { return created }
	require.NoError(t, cache.Set(key, testGraph("node")))

	// Exactly at the TTL the entry is still valid.
	cache.Now = func() time.Time { return created.Add(15 * time.Minute) }
	_, ok := cache.Get(key)
	require.True(t, ok)

	// One instant past the TTL it is a miss.
	cache.Now = func() time.Time { return created.Add(15*time.Minute + time.Second) }
	_, ok = cache.Get(key)
	require.False(t, ok)
}

func TestCacheOfflineServesStale(t *testing.T) {
	cache := newTestCache(t, types.CacheModeNormal)
	key := testKey("node")

	created := time.Now().Add(-time.Hour)
	cache.Now = func() time.Time { return created }
	require.NoError(t, cache.Set(key, testGraph("node")))

	cache.Mode = types.CacheModeOffline
	cache.Now = nil
	_, ok := cache.Get(key)
	require.True(t, ok)
}

func TestCacheRefreshNeverReads(t *testing.T) {
	cache := newTestCache(t, types.CacheModeNormal)
	key := testKey("node")
	require.NoError(t, cache.Set(key, testGraph("node")))

	cache.Mode = types.CacheModeRefresh
	_, ok := cache.Get(key)
	require.False(t, ok)

	// Refresh still writes, so a later normal read hits.
	require.NoError(t, cache.Set(key, testGraph("node")))
	cache.Mode = types.CacheModeNormal
	_, ok = cache.Get(key)
	require.True(t, ok)
}

func TestCacheNoCacheNeverReadsOrWrites(t *testing.T) {
	cache := newTestCache(t, types.CacheModeNoCache)
	key := testKey("node")

	require.NoError(t, cache.Set(key, testGraph("node")))
	_, ok := cache.Get(key)
	require.False(t, ok)

	entries, err := os.ReadDir(cache.Dir)
	if err == nil {
		require.Empty(t, entries)
	}
}

func TestCacheCorruptEntryIsMiss(t *testing.T) {
	cache := newTestCache(t, types.CacheModeNormal)
	key := testKey("node")
	require.NoError(t, cache.Set(key, testGraph("node")))

	path := filepath.Join(cache.Dir, key.Digest()+".json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, ok := cache.Get(key)
	require.False(t, ok)
}

func TestCacheStaleExecutableIsMiss(t *testing.T) {
	cache := newTestCache(t, types.CacheModeNormal)
	key := testKey("node")

	dir := t.TempDir()
	exe := filepath.Join(dir, "node")
	require.NoError(t, os.WriteFile(exe, []byte("#!/bin/sh\n"), 0o755))

	graph := testGraph("node")
	graph.Executable = exe
	require.NoError(t, cache.Set(key, graph))

	_, ok := cache.Get(key)
	require.True(t, ok)

	// Deleting the cached executable invalidates the entry.
	require.NoError(t, os.Remove(exe))
	_, ok = cache.Get(key)
	require.False(t, ok)
}

func TestCacheSchemaVersionMismatchIsMiss(t *testing.T) {
	cache := newTestCache(t, types.CacheModeNormal)
	key := testKey("node")
	require.NoError(t, cache.Set(key, testGraph("node")))

	path := filepath.Join(cache.Dir, key.Digest()+".json")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry CacheEntry
	require.NoError(t, json.Unmarshal(raw, &entry))
	entry.SchemaVersion = ResolutionCacheSchemaVersion - 1
	raw, err = json.Marshal(entry)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	_, ok := cache.Get(key)
	require.False(t, ok)
}

func TestCacheInvalidateRuntime(t *testing.T) {
	cache := newTestCache(t, types.CacheModeNormal)
	require.NoError(t, cache.Set(testKey("node"), testGraph("node")))
	require.NoError(t, cache.Set(testKey("yarn"), testGraph("yarn")))

	removed, err := cache.InvalidateRuntime("node")
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	_, ok := cache.Get(testKey("node"))
	require.False(t, ok)
	_, ok = cache.Get(testKey("yarn"))
	require.True(t, ok)
}

func TestCachePruneExpired(t *testing.T) {
	cache := newTestCache(t, types.CacheModeNormal)

	old := time.Now().Add(-time.Hour)
	cache.Now = func() time.Time { return old }
	require.NoError(t, cache.Set(testKey("node"), testGraph("node")))

	cache.Now = nil
	require.NoError(t, cache.Set(testKey("yarn"), testGraph("yarn")))

	removed, err := cache.PruneExpired()
	require.NoError(t, err)
	require.Equal(t, 1, removed)

	stats, err := cache.Stats()
	require.NoError(t, err)
	require.Equal(t, 1, stats.Entries)
	require.Equal(t, 0, stats.Expired)
}

func TestCacheClearAllAndStats(t *testing.T) {
	cache := newTestCache(t, types.CacheModeNormal)
	require.NoError(t, cache.Set(testKey("node"), testGraph("node")))
	require.NoError(t, cache.Set(testKey("yarn"), testGraph("yarn")))

	stats, err := cache.Stats()
	require.NoError(t, err)
	require.Equal(t, 2, stats.Entries)
	require.Greater(t, stats.TotalBytes, int64(0))

	removed, err := cache.ClearAll()
	require.NoError(t, err)
	require.Equal(t, 2, removed)

	stats, err = cache.Stats()
	require.NoError(t, err)
	require.Equal(t, 0, stats.Entries)
}

func TestCacheMissingDirIsEmpty(t *testing.T) {
	cache := NewResolutionCache(filepath.Join(t.TempDir(), "nope"), types.CacheModeNormal, time.Minute)

	_, ok := cache.Get(testKey("node"))
	require.False(t, ok)

	stats, err := cache.Stats()
	require.NoError(t, err)
	require.Equal(t, 0, stats.Entries)

	removed, err := cache.ClearAll()
	require.NoError(t, err)
	require.Equal(t, 0, removed)
}
