package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"vx/internal/app"
	"vx/internal/core"
)

type installOptions struct {
	Dependencies bool
}

func newInstallCommand() *cobra.Command {
	opts := installOptions{}
	cmd := &cobra.Command{
		Use:   "install <tool>[@version]",
		Short: "Install a runtime into the vx store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.Context(), cmd, opts, args[0])
		},
	}
	cmd.Flags().BoolVar(&opts.Dependencies, "with-dependencies", true, "Install missing dependencies too")
	_ = viper.BindPFlag("install_dependencies", cmd.Flags().Lookup("with-dependencies"))
	return cmd
}

func runInstall(ctx context.Context, cmd *cobra.Command, opts installOptions, spec string) error {
	name, constraint, err := core.ParseToolRequest(spec)
	if err != nil {
		return err
	}

	service := newAppService()
	result, err := service.Install(ctx, app.InstallRequest{
		Tool:         name,
		Constraint:   constraint,
		Dependencies: resolveBool(cmd, opts.Dependencies, "install_dependencies", "with-dependencies"),
	})
	if err != nil {
		return err
	}
	if len(result.Installed) == 0 {
		fmt.Printf("%s already installed\n", result.Runtime)
		return nil
	}
	fmt.Printf("installed: %s\n", strings.Join(result.Installed, ", "))
	return nil
}
