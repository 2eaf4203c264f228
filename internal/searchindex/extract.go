package searchindex

import (
	"regexp"
	"strings"
)

var (
	headingPattern    = regexp.MustCompile(`(?m)^(#{1,6})[ \t]+(.+?)[ \t]*$`)
	fencePattern      = regexp.MustCompile("(?s)```.*?```")
	inlineCodePattern = regexp.MustCompile("`([^`\n]+)`")
	linkPattern       = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	dottedNamePattern = regexp.MustCompile(`\b[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)+\b`)
)

// ExtractHeadings collects every `#`..`######` heading's text with the
// leading marker stripped, in document order (§4.I "headings collects all
// `#`..`######` headings with markdown markers stripped").
func ExtractHeadings(content string) []string {
	matches := headingPattern.FindAllStringSubmatch(content, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, strings.TrimSpace(m[2]))
	}
	return out
}

// ExtractTerms collects back-ticked identifiers (skipping any inline code
// span longer than maxInlineCodeLength) and dotted qualified names found
// anywhere in prose, deduplicated in first-seen order (§4.I "terms
// collects back-ticked identifiers and dotted qualified names, skipping
// long inline code").
func ExtractTerms(content string, maxInlineCodeLength int) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(s string) {
		s = strings.TrimSpace(s)
		if s == "" {
			return
		}
		if _, ok := seen[s]; ok {
			return
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}

	for _, m := range inlineCodePattern.FindAllStringSubmatch(content, -1) {
		term := m[1]
		if len(term) > maxInlineCodeLength {
			continue
		}
		add(term)
	}

	for _, m := range dottedNamePattern.FindAllString(content, -1) {
		add(m)
	}

	return out
}

// ExtractSnippet produces a plain-text preview: code fences, headings, and
// link syntax are stripped (a link's anchor text is kept), whitespace is
// collapsed, and the result is truncated to at most maxLength characters on
// a word boundary (§4.I "snippet strips code fences, headings, and link
// syntax ... and truncates to N characters on a word boundary").
func ExtractSnippet(content string, maxLength int) string {
	stripped := fencePattern.ReplaceAllString(content, " ")
	stripped = headingPattern.ReplaceAllString(stripped, " ")
	stripped = linkPattern.ReplaceAllString(stripped, "$1")
	stripped = inlineCodePattern.ReplaceAllString(stripped, "$1")

	fields := strings.Fields(stripped)
	joined := strings.Join(fields, " ")

	if len(joined) <= maxLength {
		return joined
	}
	return truncateOnWordBoundary(joined, maxLength)
}

func truncateOnWordBoundary(s string, maxLength int) string {
	if maxLength <= 0 {
		return ""
	}
	cut := s[:maxLength]
	if idx := strings.LastIndexByte(cut, ' '); idx > 0 {
		cut = cut[:idx]
	}
	return strings.TrimRight(cut, " ")
}
