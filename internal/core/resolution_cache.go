package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"vx/internal/shared"
	"vx/internal/types"
)

// ResolutionCacheSchemaVersion is bumped whenever the key or entry
// layout changes; old entries simply stop matching and age out.
const ResolutionCacheSchemaVersion = 2

// ResolutionCacheKey identifies one resolution outcome. Two requests
// that could ever produce different graphs must differ in at least one
// field, including the working directory since project config is
// discovered by walking upward from it.
type ResolutionCacheKey struct {
	SchemaVersion    int    `json:"schema_version"`
	VxVersion        string `json:"vx_version"`
	OS               string `json:"os"`
	Arch             string `json:"arch"`
	Cwd              string `json:"cwd"`
	Runtime          string `json:"runtime"`
	Version          string `json:"version"`
	ArgsDigest       string `json:"args_digest"`
	ConfigDigest     string `json:"config_digest,omitempty"`
	LockDigest       string `json:"lock_digest,omitempty"`
	PreferVxManaged  bool   `json:"prefer_vx_managed"`
	FallbackToSystem bool   `json:"fallback_to_system"`
}

// Digest returns the sha256 of the canonical JSON encoding of the key.
// It doubles as the cache file name.
func (k ResolutionCacheKey) Digest() string {
	raw, err := json.Marshal(k)
	if err != nil {
		// Keys are plain value structs; Marshal cannot fail in practice.
		return shared.Sha256Hex([]byte(fmt.Sprintf("%+v", k)))
	}
	return shared.Sha256Hex(raw)
}

// CacheEntry is the on-disk envelope around a cached graph. The key is
// stored alongside the value so entries can be audited and pruned by
// runtime without re-deriving digests.
type CacheEntry struct {
	SchemaVersion int                `json:"schema_version"`
	CreatedAt     time.Time          `json:"created_at"`
	TTLSecs       int64              `json:"ttl_secs"`
	Key           ResolutionCacheKey `json:"key"`
	Value         types.ResolvedGraph `json:"value"`
}

// expired reports whether the entry is past its TTL at now. The
// boundary is inclusive: an entry exactly ttl old is still valid.
func (e CacheEntry) expired(now time.Time) bool {
	ttl := time.Duration(e.TTLSecs) * time.Second
	return now.Sub(e.CreatedAt) > ttl
}

// CacheStats summarizes the on-disk cache for reporting.
type CacheStats struct {
	Entries    int   `json:"entries"`
	Expired    int   `json:"expired"`
	TotalBytes int64 `json:"total_bytes"`
}

// ResolutionCache persists resolved graphs as one JSON file per key
// under Dir. All operations are best-effort: a broken cache degrades
// to re-resolution, never to a failed command.
type ResolutionCache struct {
	Dir  string
	Mode types.CacheMode
	TTL  time.Duration

	// Now is swappable for tests; nil means time.Now.
	Now func() time.Time
}

func NewResolutionCache(dir string, mode types.CacheMode, ttl time.Duration) *ResolutionCache {
	if ttl <= 0 {
		ttl = types.DefaultResolverConfig().CacheTTL
	}
	return &ResolutionCache{Dir: dir, Mode: mode, TTL: ttl}
}

func (c *ResolutionCache) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// Get returns the cached graph for key, honoring the cache mode:
// refresh and no-cache never hit, offline accepts expired entries.
// Corrupt or mismatched entries are treated as misses.
func (c *ResolutionCache) Get(key ResolutionCacheKey) (types.ResolvedGraph, bool) {
	if c == nil || c.Mode == types.CacheModeNoCache || c.Mode == types.CacheModeRefresh {
		return types.ResolvedGraph{}, false
	}

	raw, err := os.ReadFile(c.entryPath(key))
	if err != nil {
		return types.ResolvedGraph{}, false
	}

	var entry CacheEntry
	if err := json.Unmarshal(raw, &entry); err != nil {
		return types.ResolvedGraph{}, false
	}
	if entry.SchemaVersion != ResolutionCacheSchemaVersion || entry.Key != key {
		return types.ResolvedGraph{}, false
	}
	if c.Mode != types.CacheModeOffline && entry.expired(c.now()) {
		return types.ResolvedGraph{}, false
	}

	// Light validation: a cached absolute executable that no longer
	// exists means the world changed under the cache.
	exe := entry.Value.Executable
	if filepath.IsAbs(exe) && !entry.Value.RuntimeNeedsInstall {
		if _, err := os.Stat(exe); err != nil {
			return types.ResolvedGraph{}, false
		}
	}
	return entry.Value, true
}

// Set writes the graph under key atomically via temp file and rename,
// so concurrent vx processes never observe a partial entry.
func (c *ResolutionCache) Set(key ResolutionCacheKey, graph types.ResolvedGraph) error {
	if c == nil || c.Mode == types.CacheModeNoCache {
		return nil
	}
	if err := os.MkdirAll(c.Dir, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create resolution cache directory").
			WithCause(err)
	}

	entry := CacheEntry{
		SchemaVersion: ResolutionCacheSchemaVersion,
		CreatedAt:     c.now(),
		TTLSecs:       int64(c.TTL / time.Second),
		Key:           key,
		Value:         graph,
	}
	raw, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode resolution cache entry").
			WithCause(err)
	}

	tmp, err := os.CreateTemp(c.Dir, ".entry-*.tmp")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create resolution cache temp file").
			WithCause(err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write resolution cache entry").
			WithCause(err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to close resolution cache temp file").
			WithCause(err)
	}
	if err := os.Rename(tmpName, c.entryPath(key)); err != nil {
		os.Remove(tmpName)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to commit resolution cache entry").
			WithCause(err)
	}
	return nil
}

// Remove drops the entry for key if present.
func (c *ResolutionCache) Remove(key ResolutionCacheKey) error {
	err := os.Remove(c.entryPath(key))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

// InvalidateRuntime removes every entry whose key names runtime. Used
// after installs so stale not-installed graphs never linger.
func (c *ResolutionCache) InvalidateRuntime(runtime string) (int, error) {
	removed := 0
	err := c.eachEntry(func(path string, entry CacheEntry, ok bool) error {
		if ok && entry.Key.Runtime != runtime {
			return nil
		}
		if !ok {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

// PruneExpired removes entries past their TTL and any file that no
// longer decodes, returning how many were dropped.
func (c *ResolutionCache) PruneExpired() (int, error) {
	now := c.now()
	removed := 0
	err := c.eachEntry(func(path string, entry CacheEntry, ok bool) error {
		if ok && !entry.expired(now) && entry.SchemaVersion == ResolutionCacheSchemaVersion {
			return nil
		}
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

// ClearAll removes every cache entry.
func (c *ResolutionCache) ClearAll() (int, error) {
	removed := 0
	err := c.eachEntry(func(path string, _ CacheEntry, _ bool) error {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return err
		}
		removed++
		return nil
	})
	return removed, err
}

// Stats walks the cache directory and reports entry counts and size.
func (c *ResolutionCache) Stats() (CacheStats, error) {
	now := c.now()
	var stats CacheStats
	err := c.eachEntry(func(path string, entry CacheEntry, ok bool) error {
		stats.Entries++
		if info, err := os.Stat(path); err == nil {
			stats.TotalBytes += info.Size()
		}
		if !ok || entry.expired(now) {
			stats.Expired++
		}
		return nil
	})
	return stats, err
}

func (c *ResolutionCache) entryPath(key ResolutionCacheKey) string {
	return filepath.Join(c.Dir, key.Digest()+".json")
}

// eachEntry visits every .json file in the cache directory, decoding
// each one; ok is false for files that do not decode as entries.
func (c *ResolutionCache) eachEntry(fn func(path string, entry CacheEntry, ok bool) error) error {
	names, err := os.ReadDir(c.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	for _, de := range names {
		if de.IsDir() || filepath.Ext(de.Name()) != ".json" {
			continue
		}
		path := filepath.Join(c.Dir, de.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var entry CacheEntry
		ok := json.Unmarshal(raw, &entry) == nil
		if err := fn(path, entry, ok); err != nil {
			return err
		}
	}
	return nil
}
