package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	ollamajudge "github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/adapters/driven/judge/ollama"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/services"
)

var (
	evalDataset    string
	evalJudgeModel string
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run the offline evaluation harness over a dataset",
	Long: `Eval answers every question of a dataset through the pipeline, then
grades each answer with an LLM judge on four metrics: correctness
against the reference answer, relevance to the question, groundedness
in the retrieved context, and retrieval relevance.

The dataset is a JSON array of {"question", "reference_answer"} pairs.`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVar(&evalDataset, "dataset", "dataset.json", "Path to the evaluation dataset")
	evalCmd.Flags().StringVar(&evalJudgeModel, "judge-model", "", "Judge model (default: configured generation model)")
}

func runEval(cmd *cobra.Command, args []string) error {
	examples, err := loadDataset(evalDataset)
	if err != nil {
		return err
	}

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

	judgeModel := evalJudgeModel
	if judgeModel == "" {
		judgeModel = app.cfg.Generate.Model
	}
	judge := ollamajudge.NewJudge(ollamajudge.Config{
		BaseURL: app.cfg.Ollama.BaseURL,
		Model:   judgeModel,
	})

	eval := services.NewEvalService(query, judge)
	report, err := eval.Run(ctx, examples)
	if err != nil {
		return err
	}

	printReport(cmd, report)
	return nil
}

// loadDataset reads a JSON array of question/reference pairs.
func loadDataset(path string) ([]domain.Example, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading dataset %s: %w", path, err)
	}

	var examples []domain.Example
	if err := json.Unmarshal(data, &examples); err != nil {
		return nil, fmt.Errorf("parsing dataset %s: %w", path, err)
	}
	if len(examples) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}
	return examples, nil
}

const answerPreviewLimit = 500

func printReport(cmd *cobra.Command, report domain.EvalReport) {
	for _, row := range report.Rows {
		cmd.Println("\n---")
		cmd.Printf("Q: %s\n", row.Question)
		cmd.Printf("Ans: %s\n", truncate(row.Answer, answerPreviewLimit))
		cmd.Printf("%s | %s | %s | %s\n",
			formatVerdict(row.Verdicts.Correctness, "correctness"),
			formatVerdict(row.Verdicts.Relevance, "relevance"),
			formatVerdict(row.Verdicts.Groundedness, "groundedness"),
			formatVerdict(row.Verdicts.RetrievalRelevance, "retrieval_relevance"))
	}

	cmd.Println("\n====== Résumé ======")
	cmd.Printf("Correctness:          %.0f%%\n", report.CorrectnessRate()*100)
	cmd.Printf("Relevance:            %.0f%%\n", report.RelevanceRate()*100)
	cmd.Printf("Groundedness:         %.0f%%\n", report.GroundednessRate()*100)
	cmd.Printf("Retrieval relevance:  %.0f%%\n", report.RetrievalRelevanceRate()*100)
}

func formatVerdict(pass bool, label string) string {
	if pass {
		return fmt.Sprintf("✅ %s: true", label)
	}
	return color.RedString("❌ %s: false", label)
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
