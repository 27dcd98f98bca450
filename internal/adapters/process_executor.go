package adapters

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"vx/internal/ports"
	"vx/internal/types"
)

// ProcessExecutorAdapter runs the resolved executable as a child
// process with inherited stdio and returns its exit code.
type ProcessExecutorAdapter struct{}

func NewProcessExecutorAdapter() ProcessExecutorAdapter {
	return ProcessExecutorAdapter{}
}

func (a ProcessExecutorAdapter) Execute(ctx context.Context, graph types.ResolvedGraph, args []string, cfg types.ResolverConfig) (int, error) {
	if graph.Executable == "" {
		return -1, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("resolved graph has no executable")
	}

	if cfg.ExecutionTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ExecutionTimeout)
		defer cancel()
	}

	// command_prefix rewrites the invocation (uvx spawns `uv tool run`),
	// prepended verbatim before the caller's args.
	argv := append(append([]string(nil), graph.CommandPrefix...), args...)

	cmd := exec.CommandContext(ctx, graph.Executable, argv...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = a.environment(graph, cfg)

	log.Ctx(ctx).Debug().
		Str("executable", graph.Executable).
		Strs("args", argv).
		Msg("spawning runtime")

	err := cmd.Run()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode(), nil
	}
	if ctx.Err() != nil {
		return -1, errbuilder.New().
			WithCode(errbuilder.CodeDeadlineExceeded).
			WithMsg("execution timed out").
			WithCause(ctx.Err())
	}
	return -1, errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg("failed to spawn " + graph.Executable).
		WithCause(err)
}

// environment builds the child environment. With InheritVxPath the
// resolved executable's directory is prepended to PATH so the runtime
// finds its own sibling tools (npm beside node).
func (a ProcessExecutorAdapter) environment(graph types.ResolvedGraph, cfg types.ResolverConfig) []string {
	env := os.Environ()
	if !cfg.InheritVxPath || !filepath.IsAbs(graph.Executable) {
		return env
	}
	binDir := filepath.Dir(graph.Executable)
	for i, kv := range env {
		if strings.HasPrefix(kv, "PATH=") {
			env[i] = "PATH=" + binDir + string(os.PathListSeparator) + kv[len("PATH="):]
			return env
		}
	}
	return append(env, "PATH="+binDir)
}

var _ ports.ExecutorPort = ProcessExecutorAdapter{}
