package cli

import (
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/services"
)

// timeRounding trims generation timings for display.
const timeRounding = 10 * time.Millisecond

var compareModels []string

var compareCmd = &cobra.Command{
	Use:   "compare [question]",
	Short: "Run one question through several generation models",
	Long: `Compare retrieves context once, then generates an answer with each
listed model over the same prompt, timing each generation. A failing
model is reported and does not stop the run.

Example:
  rag compare --models llama3:latest,mistral:latest "Quelle est la matière de la selle ?"`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompare,
}

func init() {
	compareCmd.Flags().StringSliceVar(&compareModels, "models", nil, "Comma-separated generation models (default: configured model)")
}

func runCompare(cmd *cobra.Command, args []string) error {
	app, err := newApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := cmd.Context()
	query, err := app.queryService(ctx)
	if err != nil {
		return err
	}

	models := compareModels
	if len(models) == 0 {
		models = []string{app.cfg.Generate.Model}
	}
	generators := make([]driven.LLMService, len(models))
	for i, m := range models {
		generators[i] = app.generator(m)
	}

	compare := services.NewCompareService(query, generators)
	results, err := compare.Compare(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}

	header := color.New(color.Bold)
	failed := color.New(color.FgRed)
	for _, res := range results {
		header.Fprintf(cmd.OutOrStdout(), "=== %s (%s) ===\n", res.Model, res.Elapsed.Round(timeRounding))
		if res.Err != nil {
			failed.Fprintf(cmd.OutOrStdout(), "échec: %v\n\n", res.Err)
			continue
		}
		printAnswer(cmd, res.Answer)
		cmd.Println()
	}
	return nil
}
