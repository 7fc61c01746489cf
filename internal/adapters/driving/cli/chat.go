package cli

import (
	"bufio"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question loop against the indexed corpus",
	Long: `Chat starts a terminal loop: each line is answered against the index.
Type "exit", "quit" or "q" to leave.

Each question is answered independently; there is no conversation
memory between turns.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
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

	prompt := color.New(color.FgCyan, color.Bold)
	cmd.Printf("Collection %q indexée. Posez vos questions (exit pour quitter).\n\n", app.cfg.Collection)

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		prompt.Fprint(cmd.OutOrStdout(), "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		switch strings.ToLower(line) {
		case "exit", "quit", "q":
			return nil
		}

		answer, err := query.Ask(ctx, line)
		if err != nil {
			color.New(color.FgRed).Fprintf(cmd.ErrOrStderr(), "Erreur: %v\n", err)
			continue
		}

		cmd.Println()
		printAnswer(cmd, answer)
		cmd.Println()
	}
	return scanner.Err()
}
