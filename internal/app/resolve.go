package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

func (s Service) Resolve(ctx context.Context, req ResolveRequest) (ResolveResult, error) {
	tool := strings.TrimSpace(req.Tool)
	if tool == "" {
		return ResolveResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("tool name is required")
	}

	graph, err := s.resolver().Resolve(ctx, tool, req.Constraint, req.Args)
	if err != nil {
		emitHints(unknownToolHints(s.Catalog, tool, err))
		return ResolveResult{}, err
	}
	return ResolveResult{Runtime: graph.Runtime, Graph: graph}, nil
}
