package vectorstore

import (
	"context"
	"testing"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/cortexerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeEmbedder struct{ dims int }

func (f fakeEmbedder) Dimensions() int { return f.dims }

func (f fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v := make([]float32, f.dims)
		for j := range v {
			v[j] = float32((len(t) + j) % 7)
		}
		out[i] = v
	}
	return out, nil
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	InitVectorExtension()
	store, err := Open(":memory:", fakeEmbedder{dims: 8}, DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestAddChunks_AndGetByID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.AddChunks(ctx, []chunk.Chunk{{
		ID: "c1", FilePath: "safe.py", Language: chunk.LanguagePython, Kind: chunk.KindFunction,
		Name: "f", Content: "def f(): return 1", StartLine: 1, EndLine: 2,
		Metadata: map[string]string{},
	}})
	require.NoError(t, err)

	got, err := store.GetChunkByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "safe.py", got.FilePath)
}

func TestGetChunkByID_InjectionAttemptReturnsEmpty(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, []chunk.Chunk{{
		ID: "c1", FilePath: "safe.py", Language: chunk.LanguagePython, Kind: chunk.KindFunction,
		Name: "f", Content: "def f(): return 1", Metadata: map[string]string{},
	}}))

	got, err := store.GetChunkByID(ctx, "' OR '1'='1")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.GetChunkByID(ctx, "c1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "c1", got.ID)
}

func TestGetChunksByFile_InjectionAttemptReturnsEmpty(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, []chunk.Chunk{{
		ID: "c1", FilePath: "safe.py", Language: chunk.LanguagePython, Kind: chunk.KindFunction,
		Content: "x", Metadata: map[string]string{},
	}}))

	chunks, err := store.GetChunksByFile(ctx, "' OR '1'='1")
	require.NoError(t, err)
	assert.Empty(t, chunks)
}

func TestSearch_RejectsZeroLimit(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Search(context.Background(), "x", 0, SearchFilters{})
	require.Error(t, err)
	kind, ok := cortexerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, cortexerr.InvalidArgument, kind)
}

func TestSearch_RejectsInvalidLanguageBeforeIO(t *testing.T) {
	store := openTestStore(t)
	_, err := store.Search(context.Background(), "x", 5, SearchFilters{Language: "not-a-lang"})
	require.Error(t, err)
	var e *cortexerr.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, cortexerr.InvalidArgument, e.Kind)
	assert.Equal(t, "language", e.Field)
}

func TestDeleteChunksByFile_RemovesOnlyThatFile(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, []chunk.Chunk{
		{ID: "a1", FilePath: "a.py", Language: chunk.LanguagePython, Kind: chunk.KindModule, Content: "x", Metadata: map[string]string{}},
		{ID: "b1", FilePath: "b.py", Language: chunk.LanguagePython, Kind: chunk.KindModule, Content: "y", Metadata: map[string]string{}},
	}))

	n, err := store.DeleteChunksByFile(ctx, "a.py")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := store.GetChunkByID(ctx, "a1")
	require.NoError(t, err)
	assert.Nil(t, got)

	got, err = store.GetChunkByID(ctx, "b1")
	require.NoError(t, err)
	assert.NotNil(t, got)
}

func TestGetStats_CountsByLanguage(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.AddChunks(ctx, []chunk.Chunk{
		{ID: "a1", FilePath: "a.py", Language: chunk.LanguagePython, Kind: chunk.KindModule, Content: "x", Metadata: map[string]string{}},
		{ID: "b1", FilePath: "b.go", Language: chunk.LanguageGo, Kind: chunk.KindModule, Content: "y", Metadata: map[string]string{}},
	}))

	stats, err := store.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalChunks)
	assert.Equal(t, 1, stats.Languages["python"])
	assert.Equal(t, 1, stats.Languages["go"])
}

func TestEscapeLiteral_NeutralizesQuotes(t *testing.T) {
	assert.Equal(t, "'it''s'", escapeLiteral("it's"))
	assert.Equal(t, "''' OR ''1''=''1'", escapeLiteral("' OR '1'='1"))
}
