package driven

import "context"

// Converter turns one source file into normalised text.
// PDF/PPTX/Excel/image/video converters are external collaborators
// implementing this port; plain text, markdown, HTML and DOCX are
// built in.
// A conversion failure is per-document: callers log and skip, they
// never abort a batch ingestion.
type Converter interface {
	// Extensions returns the lower-case file extensions this
	// converter handles, including the leading dot.
	Extensions() []string

	// Convert reads the source and returns its normalised text.
	Convert(ctx context.Context, path string) (string, error)
}
