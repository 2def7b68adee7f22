package token

import (
	"testing"
)

func TestHeuristicCounter_ApproximatesByBytes(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"a", 1},
		{"abcd", 1},
		{"abcde", 2},
		{"This is a short sentence.", 7},
	}
	for _, tc := range cases {
		if got := (HeuristicCounter{}).Count(tc.text); got != tc.want {
			t.Errorf("Count(%q) = %d, want %d", tc.text, got, tc.want)
		}
	}
}

// countingBackend records how many times it was asked to count.
type countingBackend struct {
	calls int
}

func (b *countingBackend) Count(text string) int {
	b.calls++
	return len(text)
}

func TestCachedCounter_MemoizesRepeatCounts(t *testing.T) {
	backend := &countingBackend{}
	c := NewCachedCounter(backend, 8)

	first := c.Count("hello world")
	second := c.Count("hello world")

	if first != second {
		t.Errorf("repeat count differs: %d vs %d", first, second)
	}
	if backend.calls != 1 {
		t.Errorf("backend called %d times, want 1", backend.calls)
	}
}

func TestCachedCounter_EvictsBeyondCapacity(t *testing.T) {
	backend := &countingBackend{}
	c := NewCachedCounter(backend, 2)

	c.Count("a")
	c.Count("b")
	c.Count("c") // evicts "a"
	c.Count("a")

	if backend.calls != 4 {
		t.Errorf("backend called %d times, want 4", backend.calls)
	}
}

func TestNewCounter_UnknownEncodingFallsBackToHeuristic(t *testing.T) {
	c := NewCounter("no-such-encoding", nil)

	text := "abcdefgh"
	want := HeuristicCounter{}.Count(text)
	if got := c.Count(text); got != want {
		t.Errorf("Count(%q) = %d, want heuristic %d", text, got, want)
	}
	if got := c.Count(""); got != 0 {
		t.Errorf("Count(\"\") = %d, want 0", got)
	}
}
