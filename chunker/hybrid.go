package chunker

import "github.com/alexanderpresto/email-parser-sub000/token"

// hybridChunker tries the semantic pass first and keeps its output when it
// found exploitable structure. A single chunk (or none) means no headings
// worth grouping, so the content is rechunked with the token window
// instead. This is a heuristic, not an optimality guarantee.
type hybridChunker struct {
	maxTokens     int
	overlapTokens int
	counter       token.Counter
}

func newHybridChunker(maxTokens, overlapTokens int, counter token.Counter) *hybridChunker {
	return &hybridChunker{
		maxTokens:     maxTokens,
		overlapTokens: overlapTokens,
		counter:       counter,
	}
}

func (c *hybridChunker) Chunk(content string, metadata map[string]any) []DocumentChunk {
	semantic := newSemanticChunker(c.maxTokens, c.overlapTokens, c.counter)
	if chunks := semantic.Chunk(content, metadata); len(chunks) > 1 {
		return chunks
	}
	return newTokenChunker(c.maxTokens, c.overlapTokens, c.counter).Chunk(content, metadata)
}
