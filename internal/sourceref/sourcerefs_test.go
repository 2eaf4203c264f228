package sourceref

import (
	"strings"
	"testing"

	"github.com/cortex-research/cortex/internal/chunk"
)

func TestInjectSourceRefs_ListsEachSourceFile(t *testing.T) {
	page := Page{Path: "a.md", SourceFiles: []string{"a.go", "b.go"}}
	got := InjectSourceRefs("# A\n\nbody text\n", page, map[string]bool{"b.md": true})

	if !strings.Contains(got, "## Relevant Source Files") {
		t.Fatalf("expected a Relevant Source Files heading, got %q", got)
	}
	if !strings.Contains(got, "`a.go`") {
		t.Errorf("expected a.go listed, got %q", got)
	}
	if !strings.Contains(got, "[`b.go`](b.md)") {
		t.Errorf("expected b.go linked to its file page, got %q", got)
	}
}

func TestInjectSourceRefs_SkipsOwnWikiLink(t *testing.T) {
	page := Page{Path: "a.md", SourceFiles: []string{"a.go"}}
	got := InjectSourceRefs("# A\n", page, map[string]bool{"a.md": true})
	if strings.Contains(got, "(a.md)") {
		t.Errorf("must not link to its own page, got %q", got)
	}
	if !strings.Contains(got, "`a.go`") {
		t.Errorf("expected a.go still listed without a link, got %q", got)
	}
}

func TestInjectSourceRefs_NeverModifiesIndexPage(t *testing.T) {
	page := Page{Path: "index.md", IsIndex: true, SourceFiles: []string{"a.go"}}
	content := "# Index\n"
	got := InjectSourceRefs(content, page, map[string]bool{})
	if got != content {
		t.Errorf("index page must be unmodified, got %q", got)
	}
}

func TestInjectSourceRefs_InsertsBeforeExistingSeeAlso(t *testing.T) {
	page := Page{Path: "a.md", SourceFiles: []string{"a.go"}}
	content := "# A\n\nbody\n\n## See Also\n\n- [B](b.md)\n"
	got := InjectSourceRefs(content, page, map[string]bool{})

	refsIdx := strings.Index(got, "## Relevant Source Files")
	seeAlsoIdx := strings.Index(got, "## See Also")
	if refsIdx < 0 || seeAlsoIdx < 0 || refsIdx > seeAlsoIdx {
		t.Fatalf("expected Relevant Source Files before See Also, got %q", got)
	}
	if !strings.Contains(got, "- [B](b.md)") {
		t.Errorf("existing See Also content must survive, got %q", got)
	}
}

func TestInjectSourceRefs_LineRangeIncludedWhenPresent(t *testing.T) {
	page := Page{
		Path:        "a.md",
		SourceFiles: []string{"a.go"},
		LineInfo:    map[string]chunk.LineRange{"a.go": {Start: 10, End: 20}},
	}
	got := InjectSourceRefs("# A\n", page, map[string]bool{})
	if !strings.Contains(got, "(lines 10-20)") {
		t.Errorf("expected a line range annotation, got %q", got)
	}
}
