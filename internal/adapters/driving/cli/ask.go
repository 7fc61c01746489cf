package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
)

var askJSON bool

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a single question against the indexed corpus",
	Long: `Ask embeds the question, retrieves a diversified set of chunks from
the index and generates an answer citing its sources.

Examples:
  rag ask "Quelle est la matière de la selle ?"
  rag ask --json "Quelle est la matière de la selle ?"`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askJSON, "json", false, "Print the answer as JSON")
}

// askOutput is the JSON shape of a single answer.
type askOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
	Model   string   `json:"model"`
}

func runAsk(cmd *cobra.Command, args []string) error {
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

	question := strings.Join(args, " ")
	answer, err := query.Ask(ctx, question)
	if err != nil {
		return err
	}

	if askJSON {
		return printAnswerJSON(cmd, answer)
	}
	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, answer domain.Answer) {
	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		for _, src := range answer.Sources {
			cmd.Printf("  - %s\n", src)
		}
	}
}

func printAnswerJSON(cmd *cobra.Command, answer domain.Answer) error {
	out := askOutput{
		Answer:  answer.Text,
		Sources: answer.Sources,
		Model:   answer.Model,
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding answer: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
