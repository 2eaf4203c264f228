package wiki

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"

	"github.com/cortex-research/cortex/internal/chunk"
)

const statusFileName = "wiki_status.json"

// statusPath returns the path wiki_status.json lives at under a repo's
// cache directory, mirroring internal/indexer/status.go's statusPath for
// index_status.json (§6: "Two documents under the repo's cache directory").
func statusPath(cacheDir string) string {
	return filepath.Join(cacheDir, statusFileName)
}

// loadStatus reads a prior run's WikiGenerationStatus. A missing or corrupt
// file is not an error: both are treated as "no previous run," matching
// §7's CorruptState handling ("treats as no previous state after logging
// and does not propagate").
func loadStatus(cacheDir string) *chunk.WikiGenerationStatus {
	data, err := os.ReadFile(statusPath(cacheDir))
	if err != nil {
		return emptyStatus()
	}
	status := emptyStatus()
	if err := json.Unmarshal(data, status); err != nil {
		return emptyStatus()
	}
	return status
}

func emptyStatus() *chunk.WikiGenerationStatus {
	return &chunk.WikiGenerationStatus{Pages: map[string]chunk.WikiPageStatus{}}
}

// saveStatus persists status with sorted keys, per §6's byte-diffable
// persisted-state requirement.
func saveStatus(cacheDir string, status *chunk.WikiGenerationStatus) error {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}
	sorted := *status
	sorted.Pages = copyPageStatusMapSorted(status.Pages)

	data, err := json.MarshalIndent(&sorted, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(statusPath(cacheDir), data, 0o644)
}

func copyPageStatusMapSorted(m map[string]chunk.WikiPageStatus) map[string]chunk.WikiPageStatus {
	out := make(map[string]chunk.WikiPageStatus, len(m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		page := m[k]
		page.SourceHashes = copyStringMapSorted(page.SourceHashes)
		out[k] = page
	}
	return out
}

func copyStringMapSorted(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out[k] = m[k]
	}
	return out
}
