// Package converters maps source files to normalised text documents.
// Built-in converters handle plain text, markdown, HTML and DOCX;
// richer formats (PDF, PPTX, Excel, images, video) are external
// collaborators plugged in through the same port.
package converters

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/ports/driven"
	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/logger"
)

// Registry selects a converter by file extension.
type Registry struct {
	byExt map[string]driven.Converter
}

// NewRegistry creates a registry with the given converters. Later
// registrations win when extensions collide.
func NewRegistry(convs ...driven.Converter) *Registry {
	r := &Registry{byExt: make(map[string]driven.Converter)}
	for _, c := range convs {
		r.Register(c)
	}
	return r
}

// Register adds a converter for all of its extensions.
func (r *Registry) Register(c driven.Converter) {
	for _, ext := range c.Extensions() {
		r.byExt[strings.ToLower(ext)] = c
	}
}

// For returns the converter handling the given path.
func (r *Registry) For(path string) (driven.Converter, error) {
	ext := strings.ToLower(filepath.Ext(path))
	c, ok := r.byExt[ext]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedType, ext)
	}
	return c, nil
}

// LoadDirectory walks dir recursively, converts every supported file
// and returns the resulting documents in path order. A failed or
// unsupported file is logged and skipped; it never aborts the batch.
func (r *Registry) LoadDirectory(ctx context.Context, dir string) ([]domain.Document, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: data directory %q: %v", domain.ErrInvalidConfig, dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %q is not a directory", domain.ErrInvalidConfig, dir)
	}

	var docs []domain.Document
	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			return nil
		}
		if d.IsDir() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}

		conv, err := r.For(path)
		if err != nil {
			logger.Debug("No converter for %s", path)
			return nil
		}

		text, err := conv.Convert(ctx, path)
		if err != nil {
			logger.Warn("Conversion failed for %s: %v", path, err)
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			rel = path
		}
		docs = append(docs, domain.Document{
			Source:  rel,
			Content: CleanText(text),
			Format:  formatTag(path),
		})
		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walking %s: %w", dir, walkErr)
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Source < docs[j].Source })
	logger.Info("Loaded %d documents from %s", len(docs), dir)
	return docs, nil
}

var (
	spaceRun   = regexp.MustCompile(`[ \t]+`)
	newlineRun = regexp.MustCompile(`\n{3,}`)
)

// CleanText normalises converter output: non-breaking spaces become
// plain spaces, runs of spaces and tabs collapse to one space, and
// blank-line runs collapse to a single paragraph break. Paragraph and
// line structure is preserved for the chunker's separator priority.
func CleanText(text string) string {
	text = strings.ReplaceAll(text, " ", " ")
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = spaceRun.ReplaceAllString(text, " ")
	text = newlineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

func formatTag(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return "markdown"
	case ".html", ".htm", ".xhtml":
		return "html"
	case ".docx":
		return "docx"
	default:
		return "text"
	}
}
