package types

import (
	"strings"
	"time"
)

// ResolverConfig is the immutable policy snapshot for one invocation.
// It is built once from the merged config layers and never mutated
// mid-resolution.
type ResolverConfig struct {
	AutoInstall             bool
	AutoInstallDependencies bool
	PreferVxManaged         bool
	FallbackToSystem        bool

	CacheMode CacheMode
	CacheTTL  time.Duration

	// ExecutionTimeout bounds the spawned child process; zero means no
	// limit.
	ExecutionTimeout time.Duration

	InstallTimeout      time.Duration
	MaxParallelInstalls int
	VerifyAfterInstall  bool

	// InheritVxPath prepends vx-managed executable directories to the
	// child process PATH.
	InheritVxPath bool
}

// DefaultResolverConfig returns the policy used when no configuration
// overrides it.
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{
		AutoInstall:             true,
		AutoInstallDependencies: true,
		PreferVxManaged:         true,
		FallbackToSystem:        true,
		CacheMode:               CacheModeNormal,
		CacheTTL:                15 * time.Minute,
		InstallTimeout:          10 * time.Minute,
		MaxParallelInstalls:     4,
		VerifyAfterInstall:      true,
		InheritVxPath:           true,
	}
}

// ParseCacheMode maps a config string to a CacheMode, defaulting to
// normal for unrecognized values.
func ParseCacheMode(value string) CacheMode {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(CacheModeRefresh):
		return CacheModeRefresh
	case string(CacheModeOffline):
		return CacheModeOffline
	case string(CacheModeNoCache), "nocache", "none":
		return CacheModeNoCache
	default:
		return CacheModeNormal
	}
}
