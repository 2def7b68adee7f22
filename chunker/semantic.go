package chunker

import (
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	gmtext "github.com/yuin/goldmark/text"

	"github.com/alexanderpresto/email-parser-sub000/token"
)

// section is a heading-delimited span of lines. Content before the first
// heading forms an implicit level-0 section.
type section struct {
	start, end int // inclusive line indices
	level      int // 1..6, or 0 for pre-heading content
	title      string
	lines      []string
	tokens     int // memoized by sectionTokens
}

func (s *section) text() string {
	return strings.Join(s.lines, "\n")
}

// semanticChunker groups heading-delimited sections into token-bounded
// chunks, delegating sections that are too large on their own to the
// sliding token window.
type semanticChunker struct {
	maxTokens     int
	overlapTokens int
	counter       token.Counter
}

func newSemanticChunker(maxTokens, overlapTokens int, counter token.Counter) *semanticChunker {
	return &semanticChunker{
		maxTokens:     maxTokens,
		overlapTokens: overlapTokens,
		counter:       counter,
	}
}

func (c *semanticChunker) Chunk(content string, metadata map[string]any) []DocumentChunk {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	sections := detectSections(content, lines)

	var chunks []DocumentChunk
	var pending []*section
	pendingTokens := 0

	// flush emits the accumulated sections as a single chunk.
	flush := func() {
		if len(pending) == 0 {
			return
		}
		first, last := pending[0], pending[len(pending)-1]
		meta := cloneMetadata(metadata)
		meta[MetaSectionCount] = len(pending)
		if first.title != "" {
			meta[MetaSectionTitle] = first.title
			meta[MetaSectionLevel] = first.level
		}
		chunks = append(chunks, DocumentChunk{
			Content:    strings.Join(lines[first.start:last.end+1], "\n"),
			TokenCount: pendingTokens,
			StartIndex: first.start,
			EndIndex:   last.end,
			Metadata:   meta,
		})
		pending = nil
		pendingTokens = 0
	}

	for idx := range sections {
		s := &sections[idx]
		st := c.sectionTokens(s)

		switch {
		case st > c.maxTokens:
			// The section alone busts the budget: flush what we have, then
			// hand the section text to the token window and splice its
			// sub-chunks in with line offsets restored.
			flush()
			meta := cloneMetadata(metadata)
			if s.title != "" {
				meta[MetaSectionTitle] = s.title
				meta[MetaSectionLevel] = s.level
			}
			sub := newTokenChunker(c.maxTokens, c.overlapTokens, c.counter)
			for _, sc := range sub.Chunk(s.text(), meta) {
				sc.StartIndex = min(sc.StartIndex+s.start, s.end)
				sc.EndIndex = min(sc.EndIndex+s.start, s.end)
				chunks = append(chunks, sc)
			}

		case pendingTokens+st > c.maxTokens && len(pending) > 0:
			flush()
			pending = append(pending, s)
			pendingTokens = st

		default:
			pending = append(pending, s)
			pendingTokens += st
		}
	}
	flush()

	renumber(chunks)
	return chunks
}

// sectionTokens counts a section's text once; sections are re-touched
// repeatedly during grouping and must not be re-scanned.
func (c *semanticChunker) sectionTokens(s *section) int {
	if s.tokens == 0 {
		s.tokens = c.counter.Count(s.text())
	}
	return s.tokens
}

// detectSections locates headings by walking the markdown AST and slices
// the input into heading-delimited sections. Parsing instead of matching a
// per-line pattern keeps heading-like lines inside fenced code blocks from
// opening sections.
func detectSections(content string, lines []string) []section {
	type heading struct {
		line  int
		level int
		title string
	}

	src := []byte(content)

	// Byte offset of each line start, for mapping AST segments to lines.
	starts := make([]int, len(lines))
	off := 0
	for i, l := range lines {
		starts[i] = off
		off += len(l) + 1
	}
	lineAt := func(offset int) int {
		return sort.Search(len(starts), func(i int) bool { return starts[i] > offset }) - 1
	}

	doc := goldmark.New().Parser().Parse(gmtext.NewReader(src))
	var headings []heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if h.Lines().Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		headings = append(headings, heading{
			line:  lineAt(h.Lines().At(0).Start),
			level: h.Level,
			title: string(h.Text(src)),
		})
		return ast.WalkSkipChildren, nil
	})

	var sections []section
	if len(headings) == 0 || headings[0].line > 0 {
		end := len(lines) - 1
		if len(headings) > 0 {
			end = headings[0].line - 1
		}
		sections = append(sections, section{
			start: 0,
			end:   end,
			lines: lines[:end+1],
		})
	}
	for i, h := range headings {
		end := len(lines) - 1
		if i+1 < len(headings) {
			end = headings[i+1].line - 1
		}
		sections = append(sections, section{
			start: h.line,
			end:   end,
			level: h.level,
			title: h.title,
			lines: lines[h.line : end+1],
		})
	}
	return sections
}
