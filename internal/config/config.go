// Package config loads the pipeline configuration from a TOML file
// with RAG_* environment variable overrides. One Config instance is
// built per process and injected into the services; nothing here is
// globally mutable.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/chunker"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
)

// Defaults mirror the deployed pipeline.
const (
	DefaultCollection    = "cwd_knowledge"
	DefaultOllamaBaseURL = "http://localhost:11434"
	DefaultEmbedModel    = "nomic-embed-text"
	DefaultGenModel      = "llama3:latest"
	DefaultChunkSize     = chunker.DefaultChunkSize
	DefaultChunkOverlap  = chunker.DefaultChunkOverlap
	DefaultRetrieverK    = 5
	DefaultFetchK        = 20
	DefaultLambda        = 0.5
	DefaultTemperature   = 0.1
	DefaultContextWindow = 8192

	DefaultEmbedTimeout    = 60 * time.Second
	DefaultGenerateTimeout = 300 * time.Second
)

// Config holds every knob the pipeline recognises.
type Config struct {
	// DataDir is the corpus of normalised documents to ingest.
	DataDir string `toml:"data_dir"`

	// IndexDir is where the persisted index lives.
	IndexDir string `toml:"index_dir"`

	// Collection is the named collection within the index store.
	Collection string `toml:"collection"`

	Ollama    OllamaConfig    `toml:"ollama"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Generate  GenerateConfig  `toml:"generation"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Retriever RetrieverConfig `toml:"retriever"`
}

// OllamaConfig locates the local inference server.
type OllamaConfig struct {
	BaseURL string `toml:"base_url"`
}

// Embedding provider names accepted in the configuration.
const (
	ProviderOllama = "ollama"
	ProviderOpenAI = "openai"
)

// EmbeddingConfig configures the embedding gateway. Provider selects
// the backing service; the OpenAI provider reads its key from the
// OPENAI_API_KEY environment variable.
type EmbeddingConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	TimeoutSeconds int    `toml:"timeout_seconds"`

	// Concurrency bounds parallel embedding calls during an index
	// build; zero keeps the service default.
	Concurrency int `toml:"concurrency"`

	// MaxPerSecond rate-limits embedding calls during a build; zero
	// disables the limiter.
	MaxPerSecond float64 `toml:"max_per_second"`
}

// GenerateConfig configures the answer generator.
type GenerateConfig struct {
	Model          string  `toml:"model"`
	Temperature    float64 `toml:"temperature"`
	ContextWindow  int     `toml:"context_window"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
}

// ChunkingConfig configures the splitter.
type ChunkingConfig struct {
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`
}

// RetrieverConfig configures the diversified retriever.
type RetrieverConfig struct {
	K      int     `toml:"k"`
	FetchK int     `toml:"fetch_k"`
	Lambda float64 `toml:"lambda"`
}

// Default returns a Config with every field at its default.
func Default() Config {
	return Config{
		Collection: DefaultCollection,
		Ollama:     OllamaConfig{BaseURL: DefaultOllamaBaseURL},
		Embedding: EmbeddingConfig{
			Provider:       ProviderOllama,
			Model:          DefaultEmbedModel,
			TimeoutSeconds: int(DefaultEmbedTimeout / time.Second),
		},
		Generate: GenerateConfig{
			Model:          DefaultGenModel,
			Temperature:    DefaultTemperature,
			ContextWindow:  DefaultContextWindow,
			TimeoutSeconds: int(DefaultGenerateTimeout / time.Second),
		},
		Chunking: ChunkingConfig{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
		},
		Retriever: RetrieverConfig{
			K:      DefaultRetrieverK,
			FetchK: DefaultFetchK,
			Lambda: DefaultLambda,
		},
	}
}

// Load reads path when it exists, layers it over the defaults, then
// applies environment overrides and validates. An empty path skips the
// file step.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config %s: %w", path, err)
			}
		} else if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// applyEnv overrides file values with RAG_* environment variables,
// keeping the variable names of the original deployment.
func (c *Config) applyEnv() {
	envString(&c.DataDir, "RAG_DATA_DIR")
	envString(&c.IndexDir, "RAG_INDEX_DIR")
	envString(&c.Collection, "RAG_COLLECTION")
	envString(&c.Ollama.BaseURL, "OLLAMA_BASE_URL")
	envString(&c.Embedding.Provider, "RAG_EMBED_PROVIDER")
	envString(&c.Embedding.Model, "RAG_EMBED_MODEL")
	envString(&c.Generate.Model, "RAG_GEN_MODEL")
	envInt(&c.Chunking.ChunkSize, "RAG_CHUNK_SIZE")
	envInt(&c.Chunking.ChunkOverlap, "RAG_CHUNK_OVERLAP")
	envInt(&c.Retriever.K, "RAG_RETRIEVER_K")
	envInt(&c.Retriever.FetchK, "RAG_RETRIEVER_FETCH_K")
	envFloat(&c.Retriever.Lambda, "RAG_RETRIEVER_LAMBDA")
}

// Validate checks every tunable; violations are configuration errors,
// fatal and never retried.
func (c *Config) Validate() error {
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive", domain.ErrInvalidConfig)
	}
	if c.Chunking.ChunkOverlap < 0 || c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap must be in [0, chunk_size)", domain.ErrInvalidConfig)
	}
	if c.Retriever.K < 1 {
		return fmt.Errorf("%w: retriever k must be at least 1", domain.ErrInvalidConfig)
	}
	if c.Retriever.K > c.Retriever.FetchK {
		return fmt.Errorf("%w: retriever k (%d) must not exceed fetch_k (%d)",
			domain.ErrInvalidConfig, c.Retriever.K, c.Retriever.FetchK)
	}
	if c.Retriever.Lambda < 0 || c.Retriever.Lambda > 1 {
		return fmt.Errorf("%w: retriever lambda must be in [0, 1]", domain.ErrInvalidConfig)
	}
	if c.Generate.Temperature < 0 || c.Generate.Temperature > 1 {
		return fmt.Errorf("%w: temperature must be in [0, 1]", domain.ErrInvalidConfig)
	}
	if c.Collection == "" {
		return fmt.Errorf("%w: collection name must not be empty", domain.ErrInvalidConfig)
	}
	switch c.Embedding.Provider {
	case "", ProviderOllama, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidConfig, c.Embedding.Provider)
	}
	return nil
}

// EmbedTimeout returns the embedding gateway timeout.
func (c *Config) EmbedTimeout() time.Duration {
	if c.Embedding.TimeoutSeconds <= 0 {
		return DefaultEmbedTimeout
	}
	return time.Duration(c.Embedding.TimeoutSeconds) * time.Second
}

// GenerateTimeout returns the answer generator timeout.
func (c *Config) GenerateTimeout() time.Duration {
	if c.Generate.TimeoutSeconds <= 0 {
		return DefaultGenerateTimeout
	}
	return time.Duration(c.Generate.TimeoutSeconds) * time.Second
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}
