package markdown

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.md")
	content := "# Titre\n\nDu texte avec [un lien](https://example.com) et du `code`.\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	got, err := New().Convert(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Titre\n\nDu texte avec un lien et du code.\n", got)
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"heading", "## Section", "Section"},
		{"bold", "du **gras** ici", "du gras ici"},
		{"italic", "de l'_italique_ ici", "de l'italique ici"},
		{"link keeps label", "[label](https://example.com)", "label"},
		{"image dropped", "avant ![alt](img.png) après", "avant  après"},
		{"inline code keeps content", "run `go build` now", "run go build now"},
		{"fenced block dropped", "avant\n```\ncode\n```\naprès", "avant\n\naprès"},
		{"horizontal rule dropped", "avant\n---\naprès", "avant\naprès"},
		{"table ruler dropped", "| a | b |\n|---|---|\n| 1 | 2 |", "| a | b |\n| 1 | 2 |"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, stripMarkdown(tt.in))
		})
	}
}
