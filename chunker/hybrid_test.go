package chunker

import (
	"reflect"
	"strings"
	"testing"
)

func TestHybridChunker_MatchesTokenWindowWithoutHeadings(t *testing.T) {
	var lines []string
	for i := 0; i < 20; i++ {
		lines = append(lines, "plain text with no structure here")
	}
	content := strings.Join(lines, "\n")
	meta := map[string]any{"source": "mail"}

	hybrid := newHybridChunker(12, 0, wordCounter{})
	tokenOnly := newTokenChunker(12, 0, wordCounter{})

	got := hybrid.Chunk(content, meta)
	want := tokenOnly.Chunk(content, meta)

	if len(got) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(got))
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("hybrid output differs from token window output\n got: %+v\nwant: %+v", got, want)
	}
}

func TestHybridChunker_KeepsSemanticOutputForStructuredContent(t *testing.T) {
	content := "# A\none two three\n# B\nfour five six\n# C\nseven eight nine"
	c := newHybridChunker(10, 0, wordCounter{})

	chunks := c.Chunk(content, nil)
	if len(chunks) < 2 {
		t.Fatalf("expected semantic grouping to win, got %d chunks", len(chunks))
	}
	if _, ok := chunks[0].Metadata[MetaSectionCount]; !ok {
		t.Error("expected section metadata from the semantic pass")
	}
	assertContiguousIDs(t, chunks)
}

func TestHybridChunker_SingleSemanticChunkFallsBack(t *testing.T) {
	content := "# Only\na little text"
	c := newHybridChunker(100, 10, wordCounter{})

	chunks := c.Chunk(content, nil)
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	// The fallback is the token window, which adds no section metadata.
	if _, ok := chunks[0].Metadata[MetaSectionCount]; ok {
		t.Error("fallback chunk should not carry section metadata")
	}
	if chunks[0].Content != content {
		t.Errorf("content = %q, want whole input", chunks[0].Content)
	}
}

func TestHybridChunker_EmptyContent(t *testing.T) {
	c := newHybridChunker(100, 10, wordCounter{})
	if chunks := c.Chunk("", nil); len(chunks) != 0 {
		t.Errorf("expected no chunks, got %d", len(chunks))
	}
}
