package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"vx/internal/types"
)

// Run resolves a tool and executes it. When the runtime or its
// required dependencies are missing and auto-install is on, they are
// installed and the tool re-resolved before execution.
func (s Service) Run(ctx context.Context, req RunRequest) (RunResult, error) {
	tool := strings.TrimSpace(req.Tool)
	if tool == "" {
		return RunResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("tool name is required")
	}

	resolver := s.resolver()
	graph, err := resolver.Resolve(ctx, tool, req.Constraint, req.Args)
	if err != nil {
		emitHints(unknownToolHints(s.Catalog, tool, err))
		return RunResult{}, err
	}

	if len(graph.IncompatibleDependencies) > 0 {
		for _, inc := range graph.IncompatibleDependencies {
			log.Ctx(ctx).Warn().
				Str("runtime", inc.Runtime).
				Str("reason", inc.Reason).
				Msg("incompatible dependency")
		}
	}

	if needsInstall(graph) {
		// Offline mode cannot install; a graph that needs work is fatal.
		if s.Config.CacheMode == types.CacheModeOffline {
			return RunResult{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("%s is not installed and offline mode forbids installation", graph.Runtime))
		}
		if !s.Config.AutoInstall {
			return RunResult{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("%s is not installed (missing: %s); run vx install or enable auto-install",
					graph.Runtime, strings.Join(graph.InstallOrder, ", ")))
		}

		plan := graph
		if !s.Config.AutoInstallDependencies {
			plan.InstallOrder = onlyRoot(graph)
		}
		if err := s.orchestrator().InstallPlan(ctx, plan); err != nil {
			return RunResult{}, err
		}

		// Installation changed the world; resolve again so the graph
		// points at real executables.
		graph, err = resolver.Resolve(ctx, tool, req.Constraint, req.Args)
		if err != nil {
			return RunResult{}, err
		}
		if needsInstall(graph) {
			return RunResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("%s still unresolved after installation", graph.Runtime))
		}
	}

	exitCode, err := s.Executor.Execute(ctx, graph, req.Args, s.Config)
	if err != nil {
		return RunResult{}, err
	}
	return RunResult{Runtime: graph.Runtime, ExitCode: exitCode}, nil
}

func needsInstall(graph types.ResolvedGraph) bool {
	return graph.RuntimeNeedsInstall || len(graph.MissingDependencies) > 0
}

func onlyRoot(graph types.ResolvedGraph) []string {
	if !graph.RuntimeNeedsInstall {
		return nil
	}
	return []string{graph.Runtime}
}
