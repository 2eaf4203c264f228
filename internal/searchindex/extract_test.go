package searchindex

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractHeadings_StripsMarkers(t *testing.T) {
	content := "# Title\n\nbody\n\n## Section One\n\nmore\n\n###### Deep\n"
	got := ExtractHeadings(content)
	want := []string{"Title", "Section One", "Deep"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ExtractHeadings = %v, want %v", got, want)
	}
}

func TestExtractHeadings_IgnoresNonHeadingHashes(t *testing.T) {
	content := "not a #hashtag heading\nplain text\n"
	got := ExtractHeadings(content)
	if len(got) != 0 {
		t.Errorf("expected no headings, got %v", got)
	}
}

func TestExtractTerms_CollectsBacktickedIdentifiers(t *testing.T) {
	content := "call `DoThing` then check `store.Search`."
	got := ExtractTerms(content, 40)
	if !contains(got, "DoThing") || !contains(got, "store.Search") {
		t.Errorf("expected both terms present, got %v", got)
	}
}

func TestExtractTerms_SkipsLongInlineCode(t *testing.T) {
	long := "`" + strings.Repeat("x", 50) + "`"
	content := "see " + long + " here"
	got := ExtractTerms(content, 40)
	if len(got) != 0 {
		t.Errorf("expected long inline code skipped, got %v", got)
	}
}

func TestExtractTerms_CollectsDottedNamesInProse(t *testing.T) {
	content := "The pipeline calls research.Pipeline.Research directly."
	got := ExtractTerms(content, 40)
	if !contains(got, "research.Pipeline.Research") {
		t.Errorf("expected dotted name collected, got %v", got)
	}
}

func TestExtractTerms_Deduplicates(t *testing.T) {
	content := "`Foo` and `Foo` again"
	got := ExtractTerms(content, 40)
	count := 0
	for _, term := range got {
		if term == "Foo" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected Foo exactly once, got %d times in %v", count, got)
	}
}

func TestExtractSnippet_StripsFencesHeadingsAndLinkSyntax(t *testing.T) {
	content := "# Title\n\nSee [the store](store.md) for more.\n\n```go\ncode here\n```\n\nTrailing text."
	got := ExtractSnippet(content, 500)
	if strings.Contains(got, "#") {
		t.Errorf("expected no heading markers, got %q", got)
	}
	if strings.Contains(got, "](") {
		t.Errorf("expected link syntax stripped, got %q", got)
	}
	if !strings.Contains(got, "the store") {
		t.Errorf("expected anchor text kept, got %q", got)
	}
	if strings.Contains(got, "code here") {
		t.Errorf("expected fenced code removed, got %q", got)
	}
}

func TestExtractSnippet_TruncatesOnWordBoundary(t *testing.T) {
	content := "one two three four five six seven eight nine ten"
	got := ExtractSnippet(content, 12)
	if len(got) > 12 {
		t.Fatalf("snippet exceeds max length: %q (%d bytes)", got, len(got))
	}
	if got != "one two" {
		t.Errorf("expected truncation at the last full word within 12 bytes, got %q", got)
	}
}

func contains(ss []string, target string) bool {
	for _, s := range ss {
		if s == target {
			return true
		}
	}
	return false
}
