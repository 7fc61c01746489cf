package cli

import (
	"github.com/spf13/cobra"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driving"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the persisted vector index",
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the index if it does not exist yet",
	Long: `Build embeds and persists the corpus when no collection exists.
An existing collection is left untouched, even if the corpus changed
since it was built; use "rag index rebuild" to refresh it.`,
	RunE: runIndexBuild,
}

var indexRebuildCmd = &cobra.Command{
	Use:   "rebuild",
	Short: "Delete the collection and build it from the current corpus",
	RunE:  runIndexRebuild,
}

var indexStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the persisted collection's size and dimensions",
	RunE:  runIndexStatus,
}

func init() {
	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexRebuildCmd)
	indexCmd.AddCommand(indexStatusCmd)
}

func runIndexBuild(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	stats, err := app.manager.EnsureBuilt(cmd.Context(), app.cfg.Collection, app.supplier())
	if err != nil {
		return err
	}
	printStats(cmd, stats)
	return nil
}

func runIndexRebuild(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	stats, err := app.manager.Rebuild(cmd.Context(), app.cfg.Collection, app.supplier())
	if err != nil {
		return err
	}
	printStats(cmd, stats)
	return nil
}

func runIndexStatus(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	stats, err := app.manager.Stats(cmd.Context(), app.cfg.Collection)
	if err != nil {
		return err
	}
	printStats(cmd, stats)
	return nil
}

func printStats(cmd *cobra.Command, stats driving.IndexStats) {
	if !stats.Built {
		cmd.Printf("Collection %q: not built\n", stats.Collection)
		return
	}
	cmd.Printf("Collection %q: %d chunks, %d dimensions\n",
		stats.Collection, stats.Chunks, stats.Dimensions)
}
