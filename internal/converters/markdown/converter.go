// Package markdown converts markdown files to plain text.
package markdown

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
)

// Ensure Converter implements the interface.
var _ driven.Converter = (*Converter)(nil)

// Converter reads markdown files and strips common formatting so the
// indexed text carries prose, not syntax.
type Converter struct{}

// New creates a new markdown converter.
func New() *Converter {
	return &Converter{}
}

// Extensions returns the file extensions this converter handles.
func (c *Converter) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Convert reads the file and returns its content with markdown
// formatting simplified.
func (c *Converter) Convert(_ context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return stripMarkdown(string(data)), nil
}

var (
	codeBlock  = regexp.MustCompile("(?s)```[^`]*```")
	inlineCode = regexp.MustCompile("`([^`]+)`")
	images     = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links      = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headings   = regexp.MustCompile(`(?m)^#{1,6}\s*`)
	emphasis   = regexp.MustCompile(`(\*\*|__|\*|_)([^*_]+)(\*\*|__|\*|_)`)
)

// stripMarkdown removes common markdown formatting. Simplified: it
// handles the constructs that appear in converter output (headings,
// emphasis, links, code), not the full CommonMark grammar.
func stripMarkdown(content string) string {
	content = codeBlock.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = headings.ReplaceAllString(content, "")
	content = emphasis.ReplaceAllString(content, "$2")

	// Drop table rulers and horizontal rules.
	var lines []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" || trimmed == "***" {
			continue
		}
		if strings.HasPrefix(trimmed, "|") && strings.Trim(trimmed, "|-: ") == "" {
			continue
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}
