// Package chunker splits normalised document text into overlapping
// fixed-size passages for indexing.
package chunker

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters
// between consecutive chunks.
const DefaultChunkOverlap = 50

// separators is the priority list used by the recursive split: coarse
// boundaries first, falling back to a hard character cut.
var separators = []string{"\n\n", "\n", ". ", " ", ""}

// Span is one chunk's location within the source text, in runes.
type Span struct {
	Start int
	End   int
}

// Splitter produces overlapping chunks of at most chunkSize characters,
// with consecutive chunks sharing exactly overlap characters whenever
// the preceding chunk reaches full size.
type Splitter struct {
	chunkSize int
	overlap   int
}

// New creates a Splitter. Invalid parameters are a configuration
// error: chunkSize must be positive and overlap must satisfy
// 0 <= overlap < chunkSize.
func New(chunkSize, overlap int) (*Splitter, error) {
	if chunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrInvalidConfig, chunkSize)
	}
	if overlap < 0 || overlap >= chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be in [0, %d)", domain.ErrInvalidConfig, overlap, chunkSize)
	}
	return &Splitter{chunkSize: chunkSize, overlap: overlap}, nil
}

// Split returns the chunk spans for text, in document order.
// A text shorter than the chunk size yields exactly one span; empty
// text yields none.
func (s *Splitter) Split(text string) []Span {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if len(runes) <= s.chunkSize {
		return []Span{{Start: 0, End: len(runes)}}
	}

	boundaries := pieceBoundaries(text, separators, s.chunkSize)

	var spans []Span
	start := 0
	for {
		end := s.endFor(boundaries, start, len(runes))
		spans = append(spans, Span{Start: start, End: end})
		if end >= len(runes) {
			return spans
		}
		next := end - s.overlap
		if next <= start {
			// Short window: advance without overlap rather
			// than re-emitting the same region.
			next = end
		}
		start = next
	}
}

// endFor picks the window end for a window starting at start: the
// largest piece boundary within the window that still leaves room for
// the next window's overlap, falling back to a hard cut at
// start+chunkSize when no such boundary exists.
func (s *Splitter) endFor(boundaries []int, start, total int) int {
	limit := start + s.chunkSize
	if limit >= total {
		return total
	}
	end := 0
	for _, b := range boundaries {
		if b <= start+s.overlap {
			continue
		}
		if b > limit {
			break
		}
		end = b
	}
	if end == 0 {
		end = limit
	}
	return end
}

// ChunkDocument splits a document and materialises its chunks with
// ids, source and sequence positions assigned.
func (s *Splitter) ChunkDocument(doc domain.Document) []domain.Chunk {
	spans := s.Split(doc.Content)
	runes := []rune(doc.Content)

	chunks := make([]domain.Chunk, len(spans))
	for i, sp := range spans {
		chunks[i] = domain.Chunk{
			ID:       uuid.New().String(),
			Source:   doc.Source,
			Position: i,
			Content:  string(runes[sp.Start:sp.End]),
			Start:    sp.Start,
			End:      sp.End,
		}
	}
	return chunks
}

// ChunkSize returns the configured chunk size.
func (s *Splitter) ChunkSize() int { return s.chunkSize }

// Overlap returns the configured overlap.
func (s *Splitter) Overlap() int { return s.overlap }

// pieceBoundaries returns the sorted rune offsets at which the
// recursive separator split produces piece ends. Pieces concatenate to
// the original text; any piece longer than chunkSize is re-split with
// the next separator in the priority list. A piece with no separators
// left contributes only its end offset: its interior is cut by the
// sliding window itself.
func pieceBoundaries(text string, seps []string, chunkSize int) []int {
	var out []int
	offset := 0
	var walk func(part string, seps []string)
	walk = func(part string, seps []string) {
		n := len([]rune(part))
		if n <= chunkSize || len(seps) == 0 || seps[0] == "" {
			offset += n
			out = append(out, offset)
			return
		}
		pieces := splitAfter(part, seps[0])
		for _, p := range pieces {
			if len([]rune(p)) > chunkSize {
				walk(p, seps[1:])
			} else {
				offset += len([]rune(p))
				out = append(out, offset)
			}
		}
	}
	walk(text, seps)
	return out
}

// splitAfter splits on sep keeping the separator attached to the
// preceding piece, so pieces concatenate back to the input.
func splitAfter(text, sep string) []string {
	parts := strings.SplitAfter(text, sep)
	// SplitAfter can yield a trailing empty piece when the text ends
	// with the separator.
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}
