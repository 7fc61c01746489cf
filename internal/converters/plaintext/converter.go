// Package plaintext converts plain text files.
package plaintext

import (
	"context"
	"fmt"
	"os"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.Converter = (*Converter)(nil)

// Converter reads text files verbatim.
type Converter struct{}

// New creates a new plain text converter.
func New() *Converter {
	return &Converter{}
}

// Extensions returns the file extensions this converter handles.
func (c *Converter) Extensions() []string {
	return []string{".txt", ".text"}
}

// Convert reads the file and returns its content.
func (c *Converter) Convert(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), nil
}
