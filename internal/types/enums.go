package types

type Ecosystem string

const (
	EcosystemNode    Ecosystem = "node"
	EcosystemPython  Ecosystem = "python"
	EcosystemRust    Ecosystem = "rust"
	EcosystemGo      Ecosystem = "go"
	EcosystemJava    Ecosystem = "java"
	EcosystemGeneric Ecosystem = "generic"
)

type StatusKind string

const (
	StatusVxManaged    StatusKind = "vx-managed"
	StatusSystem       StatusKind = "system"
	StatusNotInstalled StatusKind = "not-installed"
	StatusUnknown      StatusKind = "unknown"
)

type CacheMode string

const (
	// CacheModeNormal reads fresh entries and writes new ones.
	CacheModeNormal CacheMode = "normal"
	// CacheModeRefresh never reads but still writes recomputed entries.
	CacheModeRefresh CacheMode = "refresh"
	// CacheModeOffline reads entries even past their TTL and still writes.
	CacheModeOffline CacheMode = "offline"
	// CacheModeNoCache never reads and never writes.
	CacheModeNoCache CacheMode = "no-cache"
)
