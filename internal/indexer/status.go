package indexer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
)

// schemaVersion is bumped whenever IndexStatus's persisted shape changes
// incompatibly, mirroring the teacher's cache_metadata schema_version key
// (internal/storage/schema.go).
const schemaVersion = 1

const statusFileName = "index_status.json"

// IndexStatus is the persisted result of an index run (§4.C, §6). Field
// order and every map within it are written key-sorted so two runs over an
// unchanged tree diff byte-for-byte (testable property 3).
type IndexStatus struct {
	SchemaVersion   int               `json:"schema_version"`
	WorkerCount     int               `json:"worker_count"`
	TotalChunks     int               `json:"total_chunks"`
	TotalFiles      int               `json:"total_files"`
	FilesAdded      int               `json:"files_added"`
	FilesModified   int               `json:"files_modified"`
	FilesDeleted    int               `json:"files_deleted"`
	FilesUnchanged  int               `json:"files_unchanged"`
	LanguageCounts  map[string]int    `json:"language_counts"`
	FileHashes      map[string]string `json:"file_hashes"`
	LastIndexedUnix int64             `json:"last_indexed_unix"`
}

// newIndexStatus returns an empty status with every map initialised, so
// json.Marshal never emits `null` for an untouched repo.
func newIndexStatus() *IndexStatus {
	return &IndexStatus{
		SchemaVersion:  schemaVersion,
		LanguageCounts: map[string]int{},
		FileHashes:     map[string]string{},
	}
}

// statusPath returns the path index_status.json lives at under a repo's
// cache directory (spec.md §6: "Two documents under the repo's cache
// directory").
func statusPath(cacheDir string) string {
	return filepath.Join(cacheDir, statusFileName)
}

// loadIndexStatus reads a prior run's status. A missing file is not an
// error: it means this is the first run over this repo.
func loadIndexStatus(cacheDir string) (*IndexStatus, error) {
	data, err := os.ReadFile(statusPath(cacheDir))
	if err != nil {
		if os.IsNotExist(err) {
			return newIndexStatus(), nil
		}
		return nil, err
	}
	status := newIndexStatus()
	if err := json.Unmarshal(data, status); err != nil {
		// Corrupt status document: treat as absent rather than failing the
		// whole index run, matching §6's "treated as empty" corruption
		// handling for the vector store.
		return newIndexStatus(), nil
	}
	return status, nil
}

// LoadIndexStatus exposes the persisted IndexStatus for a prior index run,
// so package wiki and the CLI can generate a wiki against the most recent
// index without rerunning it.
func LoadIndexStatus(cacheDir string) (*IndexStatus, error) {
	return loadIndexStatus(cacheDir)
}

// saveIndexStatus writes the status document with sorted keys and stable
// indentation so it is meaningfully diffable, per §6.
func saveIndexStatus(cacheDir string, status *IndexStatus) error {
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return err
	}
	sorted := sortStatusMaps(status)
	data, err := json.MarshalIndent(sorted, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')
	return os.WriteFile(statusPath(cacheDir), data, 0o644)
}

// sortStatusMaps re-marshals map fields through an ordered structure so
// Go's stable (but unordered-iteration-backed) map encoding doesn't leak
// nondeterminism into the byte stream; encoding/json already sorts map
// string keys on Marshal, so this mainly documents that invariant and
// returns a defensive copy.
func sortStatusMaps(status *IndexStatus) *IndexStatus {
	copied := *status
	copied.LanguageCounts = copyIntMapSorted(status.LanguageCounts)
	copied.FileHashes = copyStringMapSorted(status.FileHashes)
	return &copied
}

func copyIntMapSorted(m map[string]int) map[string]int {
	out := make(map[string]int, len(m))
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
