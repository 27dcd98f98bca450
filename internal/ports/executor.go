package ports

import (
	"context"

	"vx/internal/types"
)

// ExecutorPort spawns the resolved executable, forwarding stdio and
// returning the child exit code.
type ExecutorPort interface {
	Execute(ctx context.Context, graph types.ResolvedGraph, args []string, cfg types.ResolverConfig) (int, error)
}
