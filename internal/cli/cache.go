package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newCacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect and maintain the resolution cache",
	}
	cmd.AddCommand(newCacheStatsCommand())
	cmd.AddCommand(newCacheClearCommand())
	cmd.AddCommand(newCachePruneCommand())
	return cmd
}

func newCacheStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show resolution cache statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCacheStats(cmd.Context())
		},
	}
}

func newCacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached resolutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := newAppService()
			removed, err := service.CacheClear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("removed %d entries\n", removed)
			return nil
		},
	}
}

func newCachePruneCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prune",
		Short: "Remove expired cached resolutions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			service := newAppService()
			removed, err := service.CachePrune(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("pruned %d entries\n", removed)
			return nil
		},
	}
}

func runCacheStats(ctx context.Context) error {
	service := newAppService()
	stats, err := service.CacheStats(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("dir:     %s\n", stats.Dir)
	fmt.Printf("entries: %d\n", stats.Entries)
	fmt.Printf("expired: %d\n", stats.Expired)
	fmt.Printf("size:    %d bytes\n", stats.TotalBytes)
	return nil
}
