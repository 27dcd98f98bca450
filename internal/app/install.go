package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
)

// Install resolves a tool and installs everything its graph says is
// missing. With Dependencies false only the root runtime installs.
func (s Service) Install(ctx context.Context, req InstallRequest) (InstallResult, error) {
	tool := strings.TrimSpace(req.Tool)
	if tool == "" {
		return InstallResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("tool name is required")
	}

	resolver := s.resolver()
	graph, err := resolver.Resolve(ctx, tool, req.Constraint, nil)
	if err != nil {
		emitHints(unknownToolHints(s.Catalog, tool, err))
		return InstallResult{}, err
	}

	plan := graph
	if !req.Dependencies {
		plan.InstallOrder = onlyRoot(graph)
	}
	if len(plan.InstallOrder) == 0 {
		log.Ctx(ctx).Info().Str("runtime", graph.Runtime).Msg("already installed, nothing to do")
		return InstallResult{Runtime: graph.Runtime}, nil
	}

	if err := s.orchestrator().InstallPlan(ctx, plan); err != nil {
		return InstallResult{Runtime: graph.Runtime}, err
	}
	return InstallResult{
		Runtime:   graph.Runtime,
		Installed: plan.InstallOrder,
	}, nil
}
