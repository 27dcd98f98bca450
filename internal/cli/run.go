package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"vx/internal/app"
	"vx/internal/core"
)

func newRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <tool>[@version] [args...]",
		Short: "Resolve a tool and execute it, installing when needed",
		Args:  cobra.MinimumNArgs(1),
		// Everything after the tool name belongs to the child process.
		DisableFlagParsing: false,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd.Context(), args)
		},
	}
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runRun(ctx context.Context, args []string) error {
	name, constraint, err := core.ParseToolRequest(args[0])
	if err != nil {
		return err
	}

	service := newAppService()
	result, err := service.Run(ctx, app.RunRequest{
		Tool:       name,
		Constraint: constraint,
		Args:       args[1:],
	})
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		os.Exit(result.ExitCode)
	}
	return nil
}
