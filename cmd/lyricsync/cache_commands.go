package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"lyricsync/internal/resolvecache"
)

func newCacheCommand(ctx *commandContext) *cobra.Command {
	cacheCmd := &cobra.Command{
		Use:   "cache",
		Short: "Resolution cache utilities",
	}
	cacheCmd.AddCommand(newCacheStatsCommand(ctx))
	cacheCmd.AddCommand(newCacheClearCommand(ctx))
	return cacheCmd
}

func (c *commandContext) openCache() (*resolvecache.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return resolvecache.Open(cfg.CachePath())
}

func newCacheStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show cached resolution count",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%d cached resolutions in %s\n", count, store.Path())
			return nil
		},
	}
}

func newCacheClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached resolutions",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.openCache()
			if err != nil {
				return err
			}
			defer store.Close()

			removed, err := store.Clear(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached resolutions\n", removed)
			return nil
		},
	}
}
