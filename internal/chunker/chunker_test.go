package chunker

import (
	"errors"
	"strings"
	"testing"

	"github.com/Mohamad-swaidan66/stage-2025-lim-ia/internal/core/domain"
)

func TestNew(t *testing.T) {
	t.Run("valid parameters", func(t *testing.T) {
		s, err := New(500, 50)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if s.ChunkSize() != 500 || s.Overlap() != 50 {
			t.Errorf("unexpected parameters: size=%d overlap=%d", s.ChunkSize(), s.Overlap())
		}
	})

	t.Run("zero chunk size", func(t *testing.T) {
		if _, err := New(0, 0); !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("negative overlap", func(t *testing.T) {
		if _, err := New(100, -1); !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("overlap equals chunk size", func(t *testing.T) {
		if _, err := New(100, 100); !errors.Is(err, domain.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestSplit_ShortText(t *testing.T) {
	s, err := New(100, 20)
	if err != nil {
		t.Fatal(err)
	}

	spans := s.Split("a short document")
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Start != 0 || spans[0].End != len([]rune("a short document")) {
		t.Errorf("span should cover the whole text, got %+v", spans[0])
	}
}

func TestSplit_EmptyText(t *testing.T) {
	s, err := New(100, 20)
	if err != nil {
		t.Fatal(err)
	}
	if spans := s.Split(""); len(spans) != 0 {
		t.Errorf("expected no spans for empty text, got %d", len(spans))
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	// Concatenating chunks with overlaps removed must reconstruct the
	// original text exactly.
	texts := []string{
		strings.Repeat("The cat sat on the mat. ", 40),
		"para one\n\npara two\n\n" + strings.Repeat("line three is a bit longer than the others\n", 10),
		strings.Repeat("x", 537), // no separators at all
	}

	for _, text := range texts {
		s, err := New(100, 20)
		if err != nil {
			t.Fatal(err)
		}

		spans := s.Split(text)
		runes := []rune(text)

		var rebuilt []rune
		prevEnd := 0
		for i, sp := range spans {
			if i > 0 && sp.Start > prevEnd {
				t.Fatalf("gap between spans %d and %d", i-1, i)
			}
			rebuilt = append(rebuilt, runes[max(sp.Start, prevEnd):sp.End]...)
			prevEnd = sp.End
		}
		if string(rebuilt) != text {
			t.Errorf("round trip failed: got %d runes, want %d", len(rebuilt), len(runes))
		}
	}
}

func TestSplit_OverlapInvariant(t *testing.T) {
	// Full-size consecutive chunks share exactly overlap characters.
	text := strings.Repeat("z", 1000)
	s, err := New(100, 25)
	if err != nil {
		t.Fatal(err)
	}

	spans := s.Split(text)
	runes := []rune(text)
	for i := 1; i < len(spans); i++ {
		prev, cur := spans[i-1], spans[i]
		if prev.End-prev.Start != 100 {
			continue
		}
		shared := prev.End - cur.Start
		if shared != 25 {
			t.Errorf("spans %d/%d: expected 25 shared runes, got %d", i-1, i, shared)
		}
		tail := string(runes[cur.Start:prev.End])
		head := string(runes[cur.Start : cur.Start+shared])
		if tail != head {
			t.Errorf("overlap region mismatch between spans %d and %d", i-1, i)
		}
	}
}

func TestSplit_MaxLength(t *testing.T) {
	text := strings.Repeat("word and another. ", 100)
	s, err := New(64, 16)
	if err != nil {
		t.Fatal(err)
	}

	for i, sp := range s.Split(text) {
		if sp.End-sp.Start > 64 {
			t.Errorf("span %d exceeds chunk size: %d runes", i, sp.End-sp.Start)
		}
	}
}

func TestSplit_PrefersParagraphBoundaries(t *testing.T) {
	para := strings.Repeat("a", 60)
	text := para + "\n\n" + para + "\n\n" + para
	s, err := New(100, 10)
	if err != nil {
		t.Fatal(err)
	}

	spans := s.Split(text)
	if len(spans) < 2 {
		t.Fatalf("expected multiple spans, got %d", len(spans))
	}
	// The first window should stop at the paragraph break (62 runes
	// including the separator), not at the 100-rune hard limit.
	if got := spans[0].End - spans[0].Start; got != 62 {
		t.Errorf("expected first span to end at the paragraph break (62 runes), got %d", got)
	}
}

func TestChunkDocument(t *testing.T) {
	s, err := New(50, 10)
	if err != nil {
		t.Fatal(err)
	}

	doc := domain.Document{
		Source:  "manuals/fitting.md",
		Content: strings.Repeat("The panel must sit flat on the back. ", 10),
		Format:  "markdown",
	}

	chunks := s.ChunkDocument(doc)
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	seen := make(map[string]bool)
	for i, c := range chunks {
		if c.Source != doc.Source {
			t.Errorf("chunk %d: wrong source %q", i, c.Source)
		}
		if c.Position != i {
			t.Errorf("chunk %d: position %d", i, c.Position)
		}
		if c.ID == "" || seen[c.ID] {
			t.Errorf("chunk %d: id not unique", i)
		}
		seen[c.ID] = true
		if want := string([]rune(doc.Content)[c.Start:c.End]); c.Content != want {
			t.Errorf("chunk %d: content does not match its span", i)
		}
	}
}
