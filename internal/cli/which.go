package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"vx/internal/app"
	"vx/internal/core"
)

func newWhichCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "which <tool>[@version]",
		Short: "Print the executable a tool resolves to",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhich(cmd.Context(), args[0])
		},
	}
	return cmd
}

func runWhich(ctx context.Context, spec string) error {
	name, constraint, err := core.ParseToolRequest(spec)
	if err != nil {
		return err
	}

	service := newAppService()
	result, err := service.Which(ctx, app.WhichRequest{
		Tool:       name,
		Constraint: constraint,
	})
	if err != nil {
		return err
	}
	if !result.Installed {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("%s is not installed (would be %s)", result.Runtime, result.Executable))
	}
	fmt.Println(result.Executable)
	return nil
}
