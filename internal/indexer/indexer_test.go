package indexer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cortex-research/cortex/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct{}

func (fakeEmbedder) Dimensions() int { return 4 }

func (fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = []float32{float32(len(t) % 3), 1, 0, 0}
	}
	return out, nil
}

func newTestIndexer(t *testing.T, repoRoot string) (*Indexer, *vectorstore.Store) {
	t.Helper()
	vectorstore.InitVectorExtension()
	store, err := vectorstore.Open(":memory:", fakeEmbedder{}, vectorstore.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	opts := DefaultOptions(repoRoot)
	opts.CacheDir = filepath.Join(repoRoot, ".cortex")
	return New(repoRoot, store, opts), store
}

func writeFile(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIndex_FirstRun_IndexesAllFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")
	writeFile(t, dir, "README.md", "# Title\n\nSome docs.\n")

	ix, store := newTestIndexer(t, dir)
	status, err := ix.Index(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, status.TotalFiles)
	assert.Equal(t, 2, status.FilesAdded)
	assert.Equal(t, 0, status.FilesUnchanged)
	assert.Greater(t, status.TotalChunks, 0)

	stats, err := store.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, status.TotalChunks, stats.TotalChunks)
}

func TestIndex_SecondRun_UnchangedFilesSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")

	ix, _ := newTestIndexer(t, dir)
	ctx := context.Background()

	first, err := ix.Index(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, first.FilesAdded)

	// A fresh Indexer sharing the same cache dir and store must load the
	// persisted status and treat the unchanged file as a no-op write,
	// the incremental-determinism property (testable property 3).
	ix2 := New(dir, ix.store, ix.opts)
	second, err := ix2.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, second.FilesAdded)
	assert.Equal(t, 0, second.FilesModified)
	assert.Equal(t, 1, second.FilesUnchanged)
}

func TestIndex_ModifiedFile_Rechunked(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n")

	ix, _ := newTestIndexer(t, dir)
	ctx := context.Background()
	_, err := ix.Index(ctx)
	require.NoError(t, err)

	writeFile(t, dir, "main.go", "package main\n\nfunc main() {}\n\nfunc helper() {}\n")
	ix2 := New(dir, ix.store, ix.opts)
	status, err := ix2.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.FilesModified)
}

func TestIndex_DeletedFile_ChunksRemoved(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package main\n")
	writeFile(t, dir, "b.go", "package main\n")

	ix, store := newTestIndexer(t, dir)
	ctx := context.Background()
	_, err := ix.Index(ctx)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "b.go")))
	ix2 := New(dir, ix.store, ix.opts)
	status, err := ix2.Index(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, status.FilesDeleted)

	chunks, err := store.GetChunksByFile(ctx, "b.go")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestIndex_ExcludedDirectory_Skipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main\n")
	writeFile(t, dir, "vendor/dep.go", "package dep\n")

	ix, _ := newTestIndexer(t, dir)
	status, err := ix.Index(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, status.TotalFiles)
}
