package chunker

import (
	"strings"

	"github.com/alexanderpresto/email-parser-sub000/token"
)

// tokenChunker packs units into a sliding window bounded by maxTokens,
// reaching back over trailing units to carry overlapTokens of context into
// the next window.
type tokenChunker struct {
	maxTokens     int
	overlapTokens int
	counter       token.Counter
}

func newTokenChunker(maxTokens, overlapTokens int, counter token.Counter) *tokenChunker {
	return &tokenChunker{
		maxTokens:     maxTokens,
		overlapTokens: overlapTokens,
		counter:       counter,
	}
}

func (c *tokenChunker) Chunk(content string, metadata map[string]any) []DocumentChunk {
	if content == "" {
		return nil
	}
	units, sep := segment(content)
	if len(units) == 0 {
		return nil
	}
	costs := unitCosts(units, sep, c.counter)

	var chunks []DocumentChunk
	i := 0
	for i < len(units) {
		// Grow the window greedily while the next unit still fits.
		j := i
		sum := 0
		for j < len(units) && sum+costs[j] <= c.maxTokens {
			sum += costs[j]
			j++
		}
		if j == i {
			// A single unit above the budget is emitted alone rather than
			// truncated: forward progress without content loss.
			sum = costs[i]
			j = i + 1
		}

		chunks = append(chunks, DocumentChunk{
			ID:         len(chunks),
			Content:    strings.Join(units[i:j], sep),
			TokenCount: sum,
			StartIndex: i,
			EndIndex:   j - 1,
			Metadata:   cloneMetadata(metadata),
		})
		if j >= len(units) {
			break
		}

		// Reach back from the window end, pulling in trailing units until
		// the overlap budget is met. The max guard keeps the scan from
		// re-including the whole window and stalling.
		overlapStart := j
		accumulated := 0
		for k := j - 1; k > i && accumulated < c.overlapTokens; k-- {
			accumulated += costs[k]
			overlapStart = k
		}
		i = max(overlapStart, i+1)
	}

	c.applyOverlapBudgets(chunks)
	return chunks
}

// applyOverlapBudgets reports the configured overlap bound on interior
// chunk edges; the first and last edges have nothing adjacent to share.
func (c *tokenChunker) applyOverlapBudgets(chunks []DocumentChunk) {
	for i := range chunks {
		if i > 0 {
			chunks[i].OverlapWithPrevious = c.overlapTokens
		}
		if i < len(chunks)-1 {
			chunks[i].OverlapWithNext = c.overlapTokens
		}
	}
}
