package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"vx/internal/app"
	"vx/internal/core"
	"vx/internal/types"
)

type resolveOptions struct {
	Format string
}

func newResolveCommand() *cobra.Command {
	opts := resolveOptions{}
	cmd := &cobra.Command{
		Use:   "resolve <tool>[@version] [args...]",
		Short: "Resolve a tool to an executable and install plan",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Format = resolveString(cmd, opts.Format, "format", "format")
			return runResolve(cmd.Context(), opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Output format (text, json, yaml)")
	return cmd
}

func runResolve(ctx context.Context, opts resolveOptions, args []string) error {
	name, constraint, err := core.ParseToolRequest(args[0])
	if err != nil {
		return err
	}

	service := newAppService()
	result, err := service.Resolve(ctx, app.ResolveRequest{
		Tool:       name,
		Constraint: constraint,
		Args:       args[1:],
	})
	if err != nil {
		return err
	}

	switch opts.Format {
	case "json":
		out, err := json.MarshalIndent(result.Graph, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "yaml":
		out, err := yaml.Marshal(result.Graph)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	default:
		printGraph(result.Graph)
	}
	return nil
}

func printGraph(graph types.ResolvedGraph) {
	fmt.Printf("runtime:    %s\n", graph.Runtime)
	fmt.Printf("executable: %s\n", graph.Executable)
	if len(graph.CommandPrefix) > 0 {
		fmt.Printf("prefix:     %s\n", strings.Join(graph.CommandPrefix, " "))
	}
	if graph.RuntimeNeedsInstall {
		fmt.Println("status:     needs install")
	} else {
		fmt.Println("status:     ready")
	}
	if len(graph.MissingDependencies) > 0 {
		fmt.Printf("missing:    %s\n", strings.Join(graph.MissingDependencies, ", "))
	}
	if len(graph.InstallOrder) > 0 {
		var plan []string
		for _, runtime := range graph.InstallOrder {
			if version, ok := graph.InstallVersions[runtime]; ok {
				plan = append(plan, runtime+"@"+version)
			} else {
				plan = append(plan, runtime)
			}
		}
		fmt.Printf("install:    %s\n", strings.Join(plan, ", "))
	}
	for _, inc := range graph.IncompatibleDependencies {
		fmt.Printf("conflict:   %s (%s)\n", inc.Runtime, inc.Reason)
	}
	for _, unsupported := range graph.UnsupportedPlatformRuntimes {
		fmt.Printf("unsupported: %s\n", unsupported)
	}
}
