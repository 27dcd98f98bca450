package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type listOptions struct {
	Format    string
	Installed bool
}

func newListCommand() *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List known tools and their local status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Output format (text, json, yaml)")
	cmd.Flags().BoolVar(&opts.Installed, "installed", false, "Only show available tools")
	return cmd
}

func runList(ctx context.Context, opts listOptions) error {
	service := newAppService()
	listings, err := service.ListTools(ctx)
	if err != nil {
		return err
	}

	if opts.Installed {
		filtered := listings[:0]
		for _, listing := range listings {
			if listing.Status != "not-installed" && listing.Status != "unknown" {
				filtered = append(filtered, listing)
			}
		}
		listings = filtered
	}

	switch opts.Format {
	case "json":
		out, err := json.MarshalIndent(listings, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(out))
	case "yaml":
		out, err := yaml.Marshal(listings)
		if err != nil {
			return err
		}
		fmt.Print(string(out))
	default:
		for _, listing := range listings {
			line := fmt.Sprintf("%-16s %-13s", listing.Name, listing.Status)
			if listing.Version != "" {
				line += " " + listing.Version
			}
			if len(listing.Aliases) > 0 {
				line += fmt.Sprintf(" (aliases: %s)", strings.Join(listing.Aliases, ", "))
			}
			fmt.Println(line)
		}
	}
	return nil
}
