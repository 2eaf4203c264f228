package wiki

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/indexer"
	"github.com/cortex-research/cortex/internal/providers"
	"github.com/cortex-research/cortex/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChunkSource struct {
	byFile    map[string][]chunk.Chunk
	searchErr error
}

func (f *fakeChunkSource) GetChunksByFile(ctx context.Context, path string) ([]chunk.Chunk, error) {
	return f.byFile[path], nil
}

func (f *fakeChunkSource) Search(ctx context.Context, queryText string, limit int, filters vectorstore.SearchFilters) ([]chunk.SearchResult, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return nil, nil
}

func newTestStatus(files map[string]string) *indexer.IndexStatus {
	return &indexer.IndexStatus{FileHashes: files}
}

func TestGenerate_FirstRun_RegeneratesEveryPage(t *testing.T) {
	outRoot := t.TempDir()
	cacheDir := t.TempDir()

	source := &fakeChunkSource{byFile: map[string][]chunk.Chunk{
		"a.go": {{ID: "a.go:1-2", FilePath: "a.go", StartLine: 1, EndLine: 2, Content: "package a"}},
	}}
	llm := providers.NewMockLLMProvider("# A\n\ngenerated content")
	g := New(source, llm, outRoot, cacheDir)

	status := newTestStatus(map[string]string{"a.go": "hash1"})
	result, err := g.Generate(context.Background(), status, Options{})
	require.NoError(t, err)
	require.Empty(t, result.Failures)
	assert.NotEmpty(t, result.Pages)
	assert.Equal(t, 4, result.Status.TotalPages) // file + module + architecture + index

	data, err := os.ReadFile(filepath.Join(outRoot, "a.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "generated content")
}

func TestGenerate_SecondRun_UnchangedReusesWithoutLLMCalls(t *testing.T) {
	outRoot := t.TempDir()
	cacheDir := t.TempDir()

	source := &fakeChunkSource{byFile: map[string][]chunk.Chunk{
		"a.go": {{ID: "a.go:1-2", FilePath: "a.go", Content: "package a"}},
	}}
	llm := providers.NewMockLLMProvider("content v1")
	g := New(source, llm, outRoot, cacheDir)
	status := newTestStatus(map[string]string{"a.go": "hash1"})

	_, err := g.Generate(context.Background(), status, Options{})
	require.NoError(t, err)
	firstCallCount := llm.CallCount()
	require.Greater(t, firstCallCount, 0)

	g2 := New(source, llm, outRoot, cacheDir)
	result2, err := g2.Generate(context.Background(), status, Options{})
	require.NoError(t, err)
	assert.Equal(t, firstCallCount, llm.CallCount(), "no new LLM calls on an unchanged re-run")

	for _, p := range result2.Pages {
		assert.NotZero(t, p.GeneratedAt)
	}
}

func TestGenerate_ModifiedFile_Regenerated(t *testing.T) {
	outRoot := t.TempDir()
	cacheDir := t.TempDir()

	source := &fakeChunkSource{byFile: map[string][]chunk.Chunk{
		"a.go": {{ID: "a.go:1-2", FilePath: "a.go", Content: "package a"}},
	}}
	llm := providers.NewMockLLMProvider("content v1", "content v1", "content v1", "content v1",
		"content v2", "content v2", "content v2", "content v2")
	g := New(source, llm, outRoot, cacheDir)

	status1 := newTestStatus(map[string]string{"a.go": "hash1"})
	_, err := g.Generate(context.Background(), status1, Options{})
	require.NoError(t, err)
	callsAfterFirst := llm.CallCount()

	status2 := newTestStatus(map[string]string{"a.go": "hash2"})
	g2 := New(source, llm, outRoot, cacheDir)
	_, err = g2.Generate(context.Background(), status2, Options{})
	require.NoError(t, err)
	assert.Greater(t, llm.CallCount(), callsAfterFirst)
}

func TestGenerate_PageFailure_Contained(t *testing.T) {
	outRoot := t.TempDir()
	cacheDir := t.TempDir()

	source := &fakeChunkSource{
		byFile:    map[string][]chunk.Chunk{"a.go": {{ID: "a.go:1-2", FilePath: "a.go"}}},
		searchErr: assert.AnError,
	}
	llm := providers.NewMockLLMProvider("content")
	g := New(source, llm, outRoot, cacheDir)

	status := newTestStatus(map[string]string{"a.go": "hash1"})
	result, err := g.Generate(context.Background(), status, Options{})
	require.NoError(t, err, "a per-page failure must not abort the whole run")
	assert.NotEmpty(t, result.Failures)
}
