package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Which resolves a tool and reports the executable it would invoke,
// without installing or running anything.
func (s Service) Which(ctx context.Context, req WhichRequest) (WhichResult, error) {
	tool := strings.TrimSpace(req.Tool)
	if tool == "" {
		return WhichResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("tool name is required")
	}

	graph, err := s.resolver().Resolve(ctx, tool, req.Constraint, nil)
	if err != nil {
		emitHints(unknownToolHints(s.Catalog, tool, err))
		return WhichResult{}, err
	}
	return WhichResult{
		Runtime:    graph.Runtime,
		Executable: graph.Executable,
		Installed:  !graph.RuntimeNeedsInstall,
	}, nil
}
