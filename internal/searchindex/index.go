package searchindex

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cortex-research/cortex/internal/chunk"
)

// Build extracts one Record per page, sorted by path for a stable,
// byte-diffable document.
func Build(pages []chunk.WikiPage, opts Options) []Record {
	opts = opts.normalize()

	records := make([]Record, 0, len(pages))
	for _, p := range pages {
		records = append(records, Record{
			Path:     p.Path,
			Title:    p.Title,
			Headings: ExtractHeadings(p.Content),
			Terms:    ExtractTerms(p.Content, opts.MaxInlineCodeLength),
			Snippet:  ExtractSnippet(p.Content, opts.SnippetLength),
		})
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Path < records[j].Path })
	return records
}

// Save writes records as a single JSON document at outputRoot's well-known
// filename (§6 "The search index is written to a well-known filename at
// the tree's root").
func Save(outputRoot string, records []Record) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal search index: %w", err)
	}
	path := filepath.Join(outputRoot, indexFileName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write search index %s: %w", path, err)
	}
	return nil
}

// Load reads a previously saved search index. A missing file yields an
// empty, non-error result, consistent with the corruption-tolerant
// convention the rest of this module follows for optional persisted state.
func Load(outputRoot string) ([]Record, error) {
	path := filepath.Join(outputRoot, indexFileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read search index %s: %w", path, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, nil
	}
	return records, nil
}
