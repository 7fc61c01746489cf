package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "cwd_knowledge", cfg.Collection)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, ProviderOllama, cfg.Embedding.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
	assert.Equal(t, "llama3:latest", cfg.Generate.Model)
	assert.Equal(t, 500, cfg.Chunking.ChunkSize)
	assert.Equal(t, 50, cfg.Chunking.ChunkOverlap)
	assert.Equal(t, 5, cfg.Retriever.K)
	assert.Equal(t, 20, cfg.Retriever.FetchK)
	assert.Equal(t, 0.5, cfg.Retriever.Lambda)
	assert.Equal(t, 0.1, cfg.Generate.Temperature)
	assert.Equal(t, 8192, cfg.Generate.ContextWindow)

	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Collection, cfg.Collection)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rag.toml")
	content := `
data_dir = "/srv/corpus"
collection = "manuals"

[chunking]
chunk_size = 800
chunk_overlap = 80

[retriever]
k = 3
fetch_k = 10
lambda = 0.7
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/srv/corpus", cfg.DataDir)
	assert.Equal(t, "manuals", cfg.Collection)
	assert.Equal(t, 800, cfg.Chunking.ChunkSize)
	assert.Equal(t, 80, cfg.Chunking.ChunkOverlap)
	assert.Equal(t, 3, cfg.Retriever.K)
	assert.Equal(t, 0.7, cfg.Retriever.Lambda)
	// Untouched sections keep their defaults.
	assert.Equal(t, "nomic-embed-text", cfg.Embedding.Model)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rag.toml")
	require.NoError(t, os.WriteFile(path, []byte(`collection = "from_file"`), 0600))

	t.Setenv("RAG_COLLECTION", "from_env")
	t.Setenv("RAG_CHUNK_SIZE", "250")
	t.Setenv("RAG_RETRIEVER_LAMBDA", "0.25")
	t.Setenv("OLLAMA_BASE_URL", "http://ollama:11434")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from_env", cfg.Collection)
	assert.Equal(t, 250, cfg.Chunking.ChunkSize)
	assert.Equal(t, 0.25, cfg.Retriever.Lambda)
	assert.Equal(t, "http://ollama:11434", cfg.Ollama.BaseURL)
}

func TestValidate(t *testing.T) {
	mutate := func(f func(*Config)) Config {
		cfg := Default()
		f(&cfg)
		return cfg
	}

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero chunk size", mutate(func(c *Config) { c.Chunking.ChunkSize = 0 })},
		{"overlap equals chunk size", mutate(func(c *Config) { c.Chunking.ChunkOverlap = c.Chunking.ChunkSize })},
		{"negative overlap", mutate(func(c *Config) { c.Chunking.ChunkOverlap = -1 })},
		{"k zero", mutate(func(c *Config) { c.Retriever.K = 0 })},
		{"k above fetch_k", mutate(func(c *Config) { c.Retriever.K = 21 })},
		{"lambda above one", mutate(func(c *Config) { c.Retriever.Lambda = 1.5 })},
		{"temperature above one", mutate(func(c *Config) { c.Generate.Temperature = 1.5 })},
		{"empty collection", mutate(func(c *Config) { c.Collection = "" })},
		{"unknown embedding provider", mutate(func(c *Config) { c.Embedding.Provider = "anthropic" })},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, tt.cfg.Validate(), domain.ErrInvalidConfig)
		})
	}
}

func TestTimeouts(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 60*time.Second, cfg.EmbedTimeout())
	assert.Equal(t, 300*time.Second, cfg.GenerateTimeout())

	cfg.Embedding.TimeoutSeconds = 10
	cfg.Generate.TimeoutSeconds = 42
	assert.Equal(t, 10*time.Second, cfg.EmbedTimeout())
	assert.Equal(t, 42*time.Second, cfg.GenerateTimeout())

	cfg.Embedding.TimeoutSeconds = 0
	assert.Equal(t, 60*time.Second, cfg.EmbedTimeout())
}
