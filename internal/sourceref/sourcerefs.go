package sourceref

import (
	"fmt"
	"strings"

	"github.com/cortex-research/cortex/internal/crosslink"
	"github.com/cortex-research/cortex/internal/wiki"
)

const sourceRefsHeading = "## Relevant Source Files"
const seeAlsoHeading = "## See Also"

// InjectSourceRefs appends a "Relevant Source Files" section listing each of
// page's source files, linking to that file's own page where one exists in
// existingPagePaths (§4.H "For each file/module/architecture page, append a
// 'Relevant Source Files' section ... Skip the page's own wiki link").
// Index pages are never modified. The section is inserted before any
// existing "See Also" section rather than appended after it.
func InjectSourceRefs(content string, page Page, existingPagePaths map[string]bool) string {
	if page.IsIndex {
		return content
	}

	var b strings.Builder
	b.WriteString(sourceRefsHeading)
	b.WriteString("\n\n")
	for _, f := range page.SourceFiles {
		b.WriteString(formatSourceFileEntry(f, page, existingPagePaths))
		b.WriteByte('\n')
	}
	section := strings.TrimRight(b.String(), "\n")

	return insertBeforeHeading(content, seeAlsoHeading, section)
}

func formatSourceFileEntry(f string, page Page, existingPagePaths map[string]bool) string {
	label := fmt.Sprintf("`%s`", f)

	target := wiki.FilePagePath(f)
	if target != page.Path && existingPagePaths[target] {
		rel := crosslink.RelativeWikiPath(page.Path, target)
		label = fmt.Sprintf("[%s](%s)", label, rel)
	}

	if lr, ok := page.LineInfo[f]; ok && (lr.Start != 0 || lr.End != 0) {
		return fmt.Sprintf("- %s (lines %d-%d)", label, lr.Start, lr.End)
	}
	return fmt.Sprintf("- %s", label)
}

// insertBeforeHeading inserts section, followed by a blank line, directly
// before the line exactly matching heading (if present); otherwise it
// appends section at the end of content, separated by a blank line.
func insertBeforeHeading(content, heading, section string) string {
	idx := findHeadingLine(content, heading)
	if idx < 0 {
		trimmed := strings.TrimRight(content, "\n")
		if trimmed == "" {
			return section + "\n"
		}
		return trimmed + "\n\n" + section + "\n"
	}

	before := strings.TrimRight(content[:idx], "\n")
	after := content[idx:]
	if before == "" {
		return section + "\n\n" + after
	}
	return before + "\n\n" + section + "\n\n" + after
}

// findHeadingLine returns the byte offset of the start of the line that is
// exactly heading, or -1 if no such line exists.
func findHeadingLine(content, heading string) int {
	pos := 0
	for pos <= len(content) {
		nl := strings.IndexByte(content[pos:], '\n')
		var line string
		if nl < 0 {
			line = content[pos:]
		} else {
			line = content[pos : pos+nl]
		}
		if line == heading {
			return pos
		}
		if nl < 0 {
			break
		}
		pos += nl + 1
	}
	return -1
}
