package wiki

import (
	"github.com/cortex-research/cortex/internal/chunk"
)

// needsRegeneration applies §4.F's four reuse conditions: a planned page
// must be regenerated if there is no previous status, the page is absent
// from it, its source hashes differ, or its ordered source file list
// differs. Otherwise the page is reused unchanged.
func needsRegeneration(page PlannedPage, fileHashes map[string]string, prior *chunk.WikiGenerationStatus) bool {
	if prior == nil || prior.Pages == nil {
		return true
	}
	prevPage, ok := prior.Pages[page.Path]
	if !ok {
		return true
	}
	if !sourceListsEqual(page.SourceFiles, prevPage.SourceFiles) {
		return true
	}
	if !sourceHashesEqual(page.SourceFiles, fileHashes, prevPage.SourceHashes) {
		return true
	}
	return false
}

func sourceListsEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// sourceHashesEqual compares the union of current file hashes for a page's
// sources against the previously recorded set (§4.F condition (c)).
func sourceHashesEqual(sourceFiles []string, current, previous map[string]string) bool {
	if len(sourceFiles) != len(previous) {
		return false
	}
	for _, f := range sourceFiles {
		if current[f] != previous[f] {
			return false
		}
	}
	return true
}

// sortedSourceHashes builds the page-status SourceHashes map for a page's
// current source files.
func sortedSourceHashes(sourceFiles []string, fileHashes map[string]string) map[string]string {
	out := make(map[string]string, len(sourceFiles))
	for _, f := range sourceFiles {
		out[f] = fileHashes[f]
	}
	return out
}
