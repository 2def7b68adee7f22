// Package token estimates the token cost of text spans for chunk sizing.
package token

import (
	"fmt"
	"log/slog"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding is the tiktoken encoding used when none is configured.
// cl100k_base matches GPT-4 / text-embedding-ada-002 class consumers.
const DefaultEncoding = "cl100k_base"

// DefaultCacheSize bounds the memoization cache so pathological inputs
// cannot grow it without limit.
const DefaultCacheSize = 4096

// Counter estimates the token cost of a text span. Implementations must
// return a non-negative count and must not fail.
type Counter interface {
	Count(text string) int
}

// HeuristicCounter approximates tokens as one per four bytes of text.
// This is intentionally simple; exact tokenization is not required for
// chunk sizing.
type HeuristicCounter struct{}

func (HeuristicCounter) Count(text string) int {
	return (len(text) + 3) / 4
}

// TiktokenCounter counts tokens exactly using the tiktoken BPE encodings.
type TiktokenCounter struct {
	enc *tiktoken.Tiktoken
}

// NewTiktokenCounter loads the named tiktoken encoding.
func NewTiktokenCounter(encoding string) (*TiktokenCounter, error) {
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return nil, fmt.Errorf("failed to get encoding: %w", err)
	}
	return &TiktokenCounter{enc: enc}, nil
}

func (c *TiktokenCounter) Count(text string) (n int) {
	// A tokenizer panic degrades to the heuristic rather than propagating.
	defer func() {
		if recover() != nil {
			n = HeuristicCounter{}.Count(text)
		}
	}()
	return len(c.enc.Encode(text, nil, nil))
}

// CachedCounter memoizes another counter behind a bounded LRU cache. The
// chunkers re-count the same spans repeatedly while scanning for overlap
// boundaries, so repeat counts must be O(1). Safe for concurrent use.
type CachedCounter struct {
	backend Counter
	cache   *lru.Cache[string, int]
}

// NewCachedCounter wraps backend with an LRU of at most size entries.
func NewCachedCounter(backend Counter, size int) *CachedCounter {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, _ := lru.New[string, int](size)
	return &CachedCounter{backend: backend, cache: cache}
}

func (c *CachedCounter) Count(text string) int {
	if n, ok := c.cache.Get(text); ok {
		return n
	}
	n := c.backend.Count(text)
	if n < 0 {
		n = 0
	}
	c.cache.Add(text, n)
	return n
}

// NewCounter returns a memoized counter backed by the named tiktoken
// encoding. If the encoding cannot be loaded the counter degrades to the
// byte heuristic; counting never fails.
func NewCounter(encoding string, log *slog.Logger) Counter {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	if log == nil {
		log = slog.Default()
	}

	var backend Counter
	if exact, err := NewTiktokenCounter(encoding); err != nil {
		log.Warn("exact tokenizer unavailable, falling back to heuristic",
			"encoding", encoding, "error", err)
		backend = HeuristicCounter{}
	} else {
		backend = exact
	}
	return NewCachedCounter(backend, DefaultCacheSize)
}
