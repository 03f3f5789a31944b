package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/bengali-mteb/leaderboard/internal/webapi"
)

var version = "dev"

// globalFlags are the persistent flags shared by every subcommand. Zero
// values defer to .leaderboard.yaml.
type globalFlags struct {
	debug      bool
	configDir  string
	source     string
	sourceKind string
	workers    int
	timeout    int
	noCache    bool
}

func newRootCommand() *cobra.Command {
	gf := &globalFlags{}

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Bengali MTEB leaderboard - rank embedding models on Bengali tasks",
		Long: `leaderboard loads pre-computed MTEB result artifacts for a fixed set of
embedding models evaluated on Bengali NLP tasks, and ranks and compares them.

Results are read from a directory, an HTTP base URL or an Azure Storage
container. Settings come from .leaderboard.yaml, found by walking up from the
working directory, and can be overridden with flags.`,
		Version:      version,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.BoolVar(&gf.debug, "debug", false, "Enable debug logging")
	pf.StringVar(&gf.configDir, "config-dir", "", "Directory to start the .leaderboard.yaml search from (default: working directory)")
	pf.StringVar(&gf.source, "source", "", "Result artifact location: directory, HTTP base URL or blob service URL")
	pf.StringVar(&gf.sourceKind, "source-kind", "", "Source kind: dir, http or azblob (default: inferred from --source)")
	pf.IntVar(&gf.workers, "workers", 0, "Concurrent artifact fetches")
	pf.IntVar(&gf.timeout, "timeout", 0, "Per-artifact fetch timeout in seconds")
	pf.BoolVar(&gf.noCache, "no-cache", false, "Bypass the artifact cache")

	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if gf.debug {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
		webapi.Version = version
	}

	cmd.AddCommand(newRankCommand(gf))
	cmd.AddCommand(newDistributionCommand(gf))
	cmd.AddCommand(newHeatmapCommand(gf))
	cmd.AddCommand(newRadarCommand(gf))
	cmd.AddCommand(newModelCommand(gf))
	cmd.AddCommand(newCompareCommand(gf))
	cmd.AddCommand(newCatalogCommand(gf))
	cmd.AddCommand(newBrowseCommand(gf))
	cmd.AddCommand(newServeCommand(gf))
	cmd.AddCommand(newValidateCommand())
	cmd.AddCommand(newCacheCommand(gf))

	return cmd
}
