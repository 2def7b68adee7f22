// Package chunker splits extracted document text into token-bounded chunks
// with contextual overlap, for consumption by token-limited pipelines.
//
// Upstream converters hand the engine plain text or markdown; the engine
// decides only how to split it, never what to split. Three strategies are
// available: a sliding token window, a heading-aware semantic grouper, and
// a hybrid that prefers structure when any is found.
package chunker

import (
	"fmt"
	"log/slog"

	"github.com/alexanderpresto/email-parser-sub000/token"
)

// Strategy selects a chunking implementation.
type Strategy string

const (
	StrategyToken    Strategy = "token"
	StrategySemantic Strategy = "semantic"
	StrategyHybrid   Strategy = "hybrid"
)

// Metadata keys added by the semantic strategy.
const (
	MetaSectionTitle = "section_title"
	MetaSectionLevel = "section_level"
	MetaSectionCount = "section_count"
)

// DocumentChunk is one bounded, contiguous span of the original content.
type DocumentChunk struct {
	// ID is the 0-based position in the returned sequence, contiguous and
	// gap-free even when sub-chunker output was spliced in.
	ID int
	// Content is the covered units joined with the original separator.
	Content string
	// TokenCount is the estimated token cost of Content.
	TokenCount int
	// StartIndex and EndIndex are the inclusive unit-index range into the
	// segmented input (line or word ordinals).
	StartIndex int
	EndIndex   int
	// Metadata is the caller's map copied per chunk, merged with any
	// strategy-added keys.
	Metadata map[string]any
	// OverlapWithPrevious and OverlapWithNext report the configured overlap
	// budget shared with the adjacent chunk, 0 at the sequence edges. This
	// is the target bound, not the measured overlap.
	OverlapWithPrevious int
	OverlapWithNext     int
}

// Chunker is the common contract of all strategies. Chunk is deterministic
// and total over string input: empty content yields an empty list, and no
// unit of the input is ever dropped.
type Chunker interface {
	Chunk(content string, metadata map[string]any) []DocumentChunk
}

// Config controls chunking behavior.
type Config struct {
	Strategy      Strategy
	MaxTokens     int    // target chunk size in tokens
	OverlapTokens int    // trailing context carried into the next chunk
	Encoding      string // tiktoken encoding name, default cl100k_base
	Logger        *slog.Logger
}

// DefaultConfig returns sensible defaults. Strategy must still be chosen by
// the caller.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     2000,
		OverlapTokens: 200,
		Encoding:      token.DefaultEncoding,
	}
}

// New returns the chunker implementing the configured strategy. An
// unrecognized strategy is a configuration error, never a silent default.
func New(cfg Config) (Chunker, error) {
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 2000
	}
	if cfg.MaxTokens < 0 {
		return nil, fmt.Errorf("chunk size must be positive")
	}
	if cfg.OverlapTokens < 0 {
		return nil, fmt.Errorf("chunk overlap cannot be negative")
	}
	if cfg.OverlapTokens >= cfg.MaxTokens {
		return nil, fmt.Errorf("chunk overlap must be less than chunk size")
	}

	counter := token.NewCounter(cfg.Encoding, cfg.Logger)

	switch cfg.Strategy {
	case StrategyToken:
		return newTokenChunker(cfg.MaxTokens, cfg.OverlapTokens, counter), nil
	case StrategySemantic:
		return newSemanticChunker(cfg.MaxTokens, cfg.OverlapTokens, counter), nil
	case StrategyHybrid:
		return newHybridChunker(cfg.MaxTokens, cfg.OverlapTokens, counter), nil
	default:
		return nil, fmt.Errorf("unsupported chunk strategy: %q", cfg.Strategy)
	}
}

// cloneMetadata gives each chunk its own copy of the caller's map so that
// strategy-added keys never leak between chunks or back to the caller.
func cloneMetadata(metadata map[string]any) map[string]any {
	out := make(map[string]any, len(metadata)+3)
	for k, v := range metadata {
		out[k] = v
	}
	return out
}

// renumber reassigns sequential ids in a final pass, overriding anything
// set while sub-chunker output was spliced in.
func renumber(chunks []DocumentChunk) {
	for i := range chunks {
		chunks[i].ID = i
	}
}
