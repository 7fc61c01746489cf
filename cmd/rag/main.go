// Command rag answers questions about a local document corpus through
// a retrieval-augmented pipeline backed by Ollama.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/adapters/driving/cli"
)

func main() {
	// A missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
