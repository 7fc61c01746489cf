// Package cli is the driving adapter: cobra commands that wire the
// configuration, driven adapters and core services together for one
// invocation.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	ollamaembed "github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/adapters/driven/embedding/openai"
	ollamallm "github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/adapters/driven/llm/ollama"
	sqlitestore "github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/adapters/driven/storage/sqlite"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/chunker"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/config"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/converters"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/converters/docx"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/converters/html"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/converters/markdown"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/converters/plaintext"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/services"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/logger"
)

var (
	cfgPath string
	verbose bool
)

// rootCmd is the base command.
var rootCmd = &cobra.Command{
	Use:   "rag",
	Short: "Question answering over a local document corpus",
	Long: `rag indexes a directory of documents into a local vector store and
answers questions about them through a local Ollama instance.

The index is built on first use and reused as-is afterwards; run
"rag index rebuild" after changing the corpus.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(verbose)
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "rag.toml", "Path to the TOML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(evalCmd)
	rootCmd.AddCommand(versionCmd)
}

// app bundles the wired collaborators for one command invocation.
type app struct {
	cfg      config.Config
	store    *sqlitestore.Store
	embedder driven.EmbeddingService
	manager  *services.IndexManager
}

// newApp loads configuration and opens the index store. The caller
// owns the returned app and must Close it.
func newApp() (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	store, err := sqlitestore.NewStore(cfg.IndexDir)
	if err != nil {
		return nil, fmt.Errorf("opening index store: %w", err)
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		store.Close()
		return nil, err
	}

	return &app{
		cfg:      cfg,
		store:    store,
		embedder: embedder,
		manager: services.NewIndexManager(store, embedder,
			services.WithEmbedConcurrency(cfg.Embedding.Concurrency),
			services.WithEmbedRateLimit(cfg.Embedding.MaxPerSecond)),
	}, nil
}

// newEmbedder picks the embedding gateway from the configured
// provider. Ollama is the default.
func newEmbedder(cfg config.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "", config.ProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: cfg.Ollama.BaseURL,
			Model:   cfg.Embedding.Model,
			Timeout: cfg.EmbedTimeout(),
		}), nil
	case config.ProviderOpenAI:
		model := cfg.Embedding.Model
		if model == config.DefaultEmbedModel {
			// The file default is an Ollama model; let the adapter
			// pick its own default instead.
			model = ""
		}
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			Model:   model,
			Timeout: cfg.EmbedTimeout(),
		})
	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q",
			domain.ErrInvalidConfig, cfg.Embedding.Provider)
	}
}

// Close releases the app's resources.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		logger.Warn("Closing index store: %v", err)
	}
}

// supplier loads the corpus and chunks it. It is only invoked by the
// index manager when no persisted collection exists.
func (a *app) supplier() func(ctx context.Context) ([]domain.Chunk, error) {
	return func(ctx context.Context) ([]domain.Chunk, error) {
		splitter, err := chunker.New(a.cfg.Chunking.ChunkSize, a.cfg.Chunking.ChunkOverlap)
		if err != nil {
			return nil, err
		}

		registry := converters.NewRegistry(
			plaintext.New(), markdown.New(), html.New(), docx.New())
		docs, err := registry.LoadDirectory(ctx, a.cfg.DataDir)
		if err != nil {
			return nil, err
		}

		var chunks []domain.Chunk
		for _, doc := range docs {
			chunks = append(chunks, splitter.ChunkDocument(doc)...)
		}
		logger.Info("Chunked %d documents into %d chunks", len(docs), len(chunks))
		return chunks, nil
	}
}

// generator builds an Ollama generation client for the given model.
// An empty model name uses the configured default.
func (a *app) generator(model string) *ollamallm.LLMService {
	if model == "" {
		model = a.cfg.Generate.Model
	}
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: a.cfg.Ollama.BaseURL,
		Model:   model,
		Timeout: a.cfg.GenerateTimeout(),
	})
}

// generateOptions returns the configured generation parameters.
func (a *app) generateOptions() driven.GenerateOptions {
	return driven.GenerateOptions{
		Temperature:   a.cfg.Generate.Temperature,
		ContextWindow: a.cfg.Generate.ContextWindow,
	}
}

// queryService opens (or builds) the index and wires the full
// question answering pipeline around it.
func (a *app) queryService(ctx context.Context) (*services.QueryService, error) {
	index, err := a.manager.Open(ctx, a.cfg.Collection, a.supplier())
	if err != nil {
		return nil, err
	}

	retriever, err := services.NewRetriever(
		a.cfg.Retriever.K, a.cfg.Retriever.FetchK, a.cfg.Retriever.Lambda)
	if err != nil {
		return nil, err
	}

	// Fail fast before the first question rather than at the first
	// generation, which can be minutes into a chat session.
	generator := a.generator("")
	if err := generator.Ping(ctx); err != nil {
		return nil, fmt.Errorf("%w: generation gateway: %w",
			domain.ErrGatewayUnavailable, err)
	}

	return services.NewQueryService(
		index, retriever, a.embedder, generator, a.generateOptions()), nil
}
