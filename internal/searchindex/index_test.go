package searchindex

import (
	"testing"

	"github.com/cortex-research/cortex/internal/chunk"
)

func TestBuild_SortsRecordsByPath(t *testing.T) {
	pages := []chunk.WikiPage{
		{Path: "z.md", Title: "Z", Content: "# Z\nbody"},
		{Path: "a.md", Title: "A", Content: "# A\nbody"},
	}
	records := Build(pages, DefaultOptions())
	if records[0].Path != "a.md" || records[1].Path != "z.md" {
		t.Fatalf("expected sorted records, got %+v", records)
	}
}

func TestBuild_PopulatesAllFields(t *testing.T) {
	pages := []chunk.WikiPage{
		{Path: "a.md", Title: "A", Content: "# A\n\nSee `Foo` for details."},
	}
	records := Build(pages, DefaultOptions())
	r := records[0]
	if r.Title != "A" {
		t.Errorf("expected title A, got %q", r.Title)
	}
	if len(r.Headings) != 1 || r.Headings[0] != "A" {
		t.Errorf("expected heading A, got %v", r.Headings)
	}
	if len(r.Terms) != 1 || r.Terms[0] != "Foo" {
		t.Errorf("expected term Foo, got %v", r.Terms)
	}
	if r.Snippet == "" {
		t.Errorf("expected a non-empty snippet")
	}
}

func TestSaveLoad_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	records := []Record{{Path: "a.md", Title: "A", Headings: []string{"A"}, Terms: []string{"Foo"}, Snippet: "body"}}

	if err := Save(dir, records); err != nil {
		t.Fatalf("Save: %v", err)
	}
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(got) != 1 || got[0].Path != "a.md" || got[0].Terms[0] != "Foo" {
		t.Fatalf("round-tripped records mismatch: %+v", got)
	}
}

func TestLoad_MissingFileReturnsEmptyWithoutError(t *testing.T) {
	dir := t.TempDir()
	got, err := Load(dir)
	if err != nil {
		t.Fatalf("expected no error for missing index, got %v", err)
	}
	if got != nil {
		t.Errorf("expected nil records for missing index, got %v", got)
	}
}
