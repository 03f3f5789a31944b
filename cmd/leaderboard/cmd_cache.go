package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bengali-mteb/leaderboard/internal/artifact"
)

func newCacheCommand(gf *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the artifact cache",
		Long: `Manage the on-disk artifact cache.

When cache.enabled is set, artifacts fetched from HTTP or Azure Blob sources
are stored under cache.dir and reused by later loads.`,
	}

	cmd.AddCommand(newCacheClearCommand(gf))

	return cmd
}

func newCacheClearCommand(gf *globalFlags) *cobra.Command {
	var cacheDir string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Clear the artifact cache",
		Long: `Remove all cached artifacts. The next load fetches every artifact from the
source again.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cacheDir == "" {
				cfg, err := loadConfig(gf)
				if err != nil {
					return err
				}
				cacheDir = cfg.Cache.Dir
			}

			absDir, err := filepath.Abs(cacheDir)
			if err != nil {
				return fmt.Errorf("resolving cache directory: %w", err)
			}

			c := artifact.NewCache(absDir)
			if err := c.Clear(); err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Cache cleared: %s\n", absDir) //nolint:errcheck
			return nil
		},
	}

	cmd.Flags().StringVar(&cacheDir, "cache-dir", "", "Cache directory to clear (default: cache.dir)")

	return cmd
}
