// Package crosslink implements spec.md §4.G: a pure, idempotent text
// transformation that replaces entity-name occurrences in a wiki page's
// prose with relative markdown links, while leaving fenced code blocks,
// inline code, and existing markdown links untouched.
//
// No pack example builds an equivalent weaver. A markdown AST library
// (github.com/yuin/goldmark, seen parsing markdown in
// other_examples/4a563f0f_HSn0918-rag -- internal/chunking/markdown.go) was
// considered, but rejected for this specific job: §4.G needs byte-exact
// preservation of everything outside a handful of narrow edit windows, plus
// one deliberate exception to the inline-code protection rule (a
// single-identifier backtick span becomes a link, rule 5), and rebuilding
// that from an AST's rendered output risks losing byte-for-byte fidelity
// the fixpoint property (testable property 5) depends on. A direct
// tokenizer over the source bytes guarantees every untouched byte survives
// unchanged. This is a justified stdlib (strings/unicode/path) package for that
// reason.
package crosslink

import "strings"

// spanKind classifies one contiguous region of a page's content.
type spanKind int

const (
	spanProse spanKind = iota
	spanFence
	spanInlineCode
	spanLink
)

// span is a half-open byte range [Start, End) of content, tagged with its
// kind. Fence, InlineCode, and Link spans are copied verbatim by the
// weaver, except for the single-identifier backtick exception (§4.G rule
// 5), handled by the weaver itself.
type span struct {
	Kind  spanKind
	Start int
	End   int
}

// tokenize splits content into a sequence of non-overlapping spans whose
// union is all of content, in order. Grounded directly on spec.md §4.G's
// enumerated protected constructs: fenced code blocks, inline code, and
// existing markdown links.
func tokenize(content string) []span {
	var spans []span
	i := 0
	n := len(content)
	proseStart := 0

	flushProse := func(end int) {
		if end > proseStart {
			spans = append(spans, span{Kind: spanProse, Start: proseStart, End: end})
		}
	}

	for i < n {
		if isLineStart(content, i) {
			if end, ok := matchFence(content, i); ok {
				flushProse(i)
				spans = append(spans, span{Kind: spanFence, Start: i, End: end})
				i = end
				proseStart = i
				continue
			}
		}
		if content[i] == '`' {
			if end, ok := matchInlineCode(content, i); ok {
				flushProse(i)
				spans = append(spans, span{Kind: spanInlineCode, Start: i, End: end})
				i = end
				proseStart = i
				continue
			}
		}
		if content[i] == '[' {
			if end, ok := matchLink(content, i); ok {
				flushProse(i)
				spans = append(spans, span{Kind: spanLink, Start: i, End: end})
				i = end
				proseStart = i
				continue
			}
		}
		i++
	}
	flushProse(n)
	return spans
}

func isLineStart(content string, i int) bool {
	return i == 0 || content[i-1] == '\n'
}

// matchFence recognises a commonmark-style fenced code block beginning at
// a line start: a run of ≥3 backticks or tildes, through the matching
// closing fence line (or end of content, if unterminated).
func matchFence(content string, start int) (int, bool) {
	n := len(content)
	fenceChar := content[start]
	if fenceChar != '`' && fenceChar != '~' {
		return 0, false
	}
	j := start
	for j < n && content[j] == fenceChar {
		j++
	}
	fenceLen := j - start
	if fenceLen < 3 {
		return 0, false
	}

	// Advance to the end of the opening line (the info string).
	lineEnd := strings.IndexByte(content[j:], '\n')
	if lineEnd < 0 {
		return n, true
	}
	pos := j + lineEnd + 1

	for pos < n {
		nextNL := strings.IndexByte(content[pos:], '\n')
		lineEndAbs := pos + nextNL
		if nextNL < 0 {
			lineEndAbs = n
		}
		line := content[pos:lineEndAbs]
		if isClosingFence(line, fenceChar, fenceLen) {
			if nextNL < 0 {
				return n, true
			}
			return lineEndAbs + 1, true
		}
		if nextNL < 0 {
			return n, true
		}
		pos = lineEndAbs + 1
	}
	return n, true
}

func isClosingFence(line string, fenceChar byte, minLen int) bool {
	trimmed := strings.TrimSpace(line)
	if len(trimmed) < minLen {
		return false
	}
	for i := 0; i < len(trimmed); i++ {
		if trimmed[i] != fenceChar {
			return false
		}
	}
	return true
}

// matchInlineCode recognises a commonmark inline code span: a run of N
// backticks, through the next run of exactly N backticks.
func matchInlineCode(content string, start int) (int, bool) {
	n := len(content)
	j := start
	for j < n && content[j] == '`' {
		j++
	}
	tickLen := j - start

	pos := j
	for pos < n {
		if content[pos] != '`' {
			pos++
			continue
		}
		runStart := pos
		for pos < n && content[pos] == '`' {
			pos++
		}
		if pos-runStart == tickLen {
			return pos, true
		}
	}
	return 0, false
}

// matchLink recognises an existing markdown link `[text](url)` starting at
// '['. Brackets inside text are not expected for entity-registry text, so a
// simple non-nested scan to the first `]` followed immediately by `(...)`
// is sufficient.
func matchLink(content string, start int) (int, bool) {
	n := len(content)
	closeBracket := -1
	for i := start + 1; i < n; i++ {
		if content[i] == '\n' {
			return 0, false
		}
		if content[i] == ']' {
			closeBracket = i
			break
		}
	}
	if closeBracket < 0 || closeBracket+1 >= n || content[closeBracket+1] != '(' {
		return 0, false
	}
	closeParen := -1
	for i := closeBracket + 2; i < n; i++ {
		if content[i] == '\n' {
			return 0, false
		}
		if content[i] == ')' {
			closeParen = i
			break
		}
	}
	if closeParen < 0 {
		return 0, false
	}
	return closeParen + 1, true
}
