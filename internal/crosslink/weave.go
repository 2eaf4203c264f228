package crosslink

import (
	"fmt"
	"path"
	"strings"

	"github.com/cortex-research/cortex/internal/chunk"
)

// candidate is one matchable textual form of one entity.
type candidate struct {
	form   string
	entity chunk.Entity
}

// Weave applies §4.G's entity cross-linking to one page's content. It is a
// pure function: no filesystem access, and weave(weave(content)) ==
// weave(content) (testable property 5), since an entity name already
// rewritten into `[name](path)` is recognised as an existing link on the
// next pass and left untouched (rule 4), and the single-identifier
// backtick exception (rule 5) similarly yields an existing-link span that
// is never reopened.
func Weave(content, wikiPath string, entities []chunk.Entity) string {
	candidates := buildCandidates(wikiPath, entities)
	spans := tokenize(content)

	var b strings.Builder
	for _, s := range spans {
		text := content[s.Start:s.End]
		switch s.Kind {
		case spanProse:
			b.WriteString(weaveProse(text, wikiPath, candidates))
		case spanInlineCode:
			b.WriteString(weaveInlineCode(text, wikiPath, entities))
		default: // spanFence, spanLink: copied verbatim
			b.WriteString(text)
		}
	}
	return b.String()
}

// buildCandidates excludes self-links (rule 3) and expands every remaining
// entity into its matchable forms (rule 2), longest form first so a
// multi-word alias is preferred over a shorter substring at the same
// position.
func buildCandidates(wikiPath string, entities []chunk.Entity) []candidate {
	var out []candidate
	for _, e := range entities {
		if e.WikiPath == wikiPath {
			continue
		}
		for _, form := range aliasesFor(e.Name, e.Aliases) {
			if form == "" {
				continue
			}
			out = append(out, candidate{form: form, entity: e})
		}
	}
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && len(out[j-1].form) < len(out[j].form) {
			out[j-1], out[j] = out[j], out[j-1]
			j--
		}
	}
	return out
}

// weaveProse replaces whole-word occurrences of any candidate form with a
// relative markdown link, scanning left to right so a generated
// replacement's text is never revisited in the same pass.
func weaveProse(text, wikiPath string, candidates []candidate) string {
	var b strings.Builder
	pos := 0
	for pos < len(text) {
		idx, length, c, ok := firstMatch(text, pos, candidates)
		if !ok {
			b.WriteString(text[pos:])
			return b.String()
		}
		b.WriteString(text[pos:idx])
		rel := relativeWikiPath(wikiPath, c.entity.WikiPath)
		fmt.Fprintf(&b, "[%s](%s)", text[idx:idx+length], rel)
		pos = idx + length
	}
	return b.String()
}

// firstMatch finds the earliest, then longest, candidate match at or after
// pos in text, respecting whole-word boundaries.
func firstMatch(text string, pos int, candidates []candidate) (idx, length int, c candidate, ok bool) {
	for i := pos; i < len(text); i++ {
		for _, cand := range candidates {
			f := cand.form
			if f == "" || i+len(f) > len(text) {
				continue
			}
			if text[i:i+len(f)] != f {
				continue
			}
			if !wordBoundary(text, i, i+len(f)) {
				continue
			}
			if !ok || len(f) > length {
				idx, length, c, ok = i, len(f), cand, true
			}
		}
		if ok {
			return
		}
	}
	return 0, 0, candidate{}, false
}

func wordBoundary(text string, start, end int) bool {
	if start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

// weaveInlineCode applies rule 5's sole exception to inline-code
// protection: a backtick span whose verbatim content exactly matches one
// entity's Name becomes `` [`Name`](path) ``, preserving the monospace
// rendering. Any other inline code is left untouched.
func weaveInlineCode(text, wikiPath string, entities []chunk.Entity) string {
	inner, tickLen, ok := stripTicks(text)
	if !ok {
		return text
	}
	for _, e := range entities {
		if e.WikiPath == wikiPath {
			continue
		}
		if inner == e.Name {
			rel := relativeWikiPath(wikiPath, e.WikiPath)
			ticks := strings.Repeat("`", tickLen)
			return fmt.Sprintf("[%s%s%s](%s)", ticks, inner, ticks, rel)
		}
	}
	return text
}

func stripTicks(text string) (inner string, tickLen int, ok bool) {
	i := 0
	for i < len(text) && text[i] == '`' {
		i++
	}
	if i == 0 || len(text) < 2*i {
		return "", 0, false
	}
	if text[len(text)-i:] != strings.Repeat("`", i) {
		return "", 0, false
	}
	return text[i : len(text)-i], i, true
}

// relativeWikiPath computes the path from `from`'s containing directory to
// `to`, both forward-slash wiki-root-relative paths, using pure path
// arithmetic (no filesystem access): per §4.G, "Relative paths are
// computed from the page's wiki_path to the target's wiki_path using pure
// path arithmetic."
func relativeWikiPath(from, to string) string {
	fromDir := path.Dir(from)
	fromParts := splitPath(fromDir)
	toParts := splitPath(to)

	common := 0
	for common < len(fromParts) && common < len(toParts) && fromParts[common] == toParts[common] {
		common++
	}

	ups := len(fromParts) - common
	var segments []string
	for i := 0; i < ups; i++ {
		segments = append(segments, "..")
	}
	segments = append(segments, toParts[common:]...)

	if len(segments) == 0 {
		return path.Base(to)
	}
	return strings.Join(segments, "/")
}

// RelativeWikiPath exposes the weaver's pure path-arithmetic relative-link
// computation for reuse by package sourceref, which needs the identical
// "from one wiki page to another" calculation for its source-file and
// see-also links.
func RelativeWikiPath(from, to string) string {
	return relativeWikiPath(from, to)
}

func splitPath(p string) []string {
	p = path.Clean(p)
	if p == "." || p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
