package research

import (
	"context"
	"testing"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/cortexerr"
	"github.com/cortex-research/cortex/internal/providers"
	"github.com/cortex-research/cortex/internal/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSearcher returns a fixed, score-ordered result set for every query,
// independent of the query text, so tests can assert on aggregation and
// truncation behaviour without a real store.
type fakeSearcher struct {
	results []chunk.SearchResult
	calls   int
}

func (f *fakeSearcher) Search(ctx context.Context, queryText string, limit int, filters vectorstore.SearchFilters) ([]chunk.SearchResult, error) {
	f.calls++
	out := f.results
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func makeResult(id string, score float64) chunk.SearchResult {
	return chunk.SearchResult{
		Chunk: chunk.Chunk{ID: id, FilePath: "a.go", StartLine: 1, EndLine: 2, Content: "package a"},
		Score: score,
	}
}

func TestResearch_HappyPath_ProducesAnswerAndTrace(t *testing.T) {
	searcher := &fakeSearcher{results: []chunk.SearchResult{makeResult("c1", 0.9), makeResult("c2", 0.5)}}
	llm := providers.NewMockLLMProvider(
		`{"sub_questions": [{"question": "how does X work?", "category": "IMPLEMENTATION"}]}`,
		`{"follow_up_queries": []}`,
		"final answer text",
	)
	p := New(searcher, llm)

	result, err := p.Research(context.Background(), "how does X work?", Options{})
	require.NoError(t, err)
	assert.Equal(t, "final answer text", result.Answer)
	assert.Equal(t, 2, result.TotalChunksRetrieved)
	assert.Equal(t, 3, result.LLMCalls)
	assert.Len(t, result.SubQuestions, 1)

	// Progress monotonicity (testable property 10): step numbers strictly
	// increase across the whole run.
	last := 0
	for _, step := range result.ReasoningTrace {
		assert.Greater(t, step.StepNumber, last)
		last = step.StepNumber
	}
}

func TestResearch_DecompositionFallback_OnInvalidJSON(t *testing.T) {
	searcher := &fakeSearcher{}
	llm := providers.NewMockLLMProvider("not json at all", `{"follow_up_queries": []}`, "answer")
	p := New(searcher, llm)

	result, err := p.Research(context.Background(), "what does this do?", Options{})
	require.NoError(t, err)
	require.Len(t, result.SubQuestions, 1)
	assert.Equal(t, "what does this do?", result.SubQuestions[0].Question)
	assert.Equal(t, chunk.CategoryImplementation, result.SubQuestions[0].Category)
}

func TestResearch_GapAnalysisInvalidJSON_YieldsZeroFollowUps(t *testing.T) {
	searcher := &fakeSearcher{results: []chunk.SearchResult{makeResult("c1", 0.9)}}
	llm := providers.NewMockLLMProvider(
		`{"sub_questions": [{"question": "q1", "category": "USAGE"}]}`,
		"garbled non-json response",
		"answer",
	)
	p := New(searcher, llm)

	result, err := p.Research(context.Background(), "q1", Options{})
	require.NoError(t, err)
	// Gap analysis yields zero follow-ups, so REFINED_RETRIEVAL runs no
	// search: the only search is RETRIEVAL's one sub-question. The LLM is
	// called by decomposition, gap analysis and synthesis (3 total).
	assert.Equal(t, 1, searcher.calls)
	assert.Equal(t, 3, result.LLMCalls)
}

func TestResearch_EmptyAggregate_SignalsNoCodeFound(t *testing.T) {
	searcher := &fakeSearcher{}
	llm := providers.NewMockLLMProvider(
		`{"sub_questions": [{"question": "q1"}]}`,
		`{"follow_up_queries": []}`,
		"no relevant code",
	)
	p := New(searcher, llm)

	result, err := p.Research(context.Background(), "q1", Options{})
	require.NoError(t, err)
	assert.Equal(t, 0, result.TotalChunksRetrieved)
	// With nothing aggregated, synthesis is given the no-code notice as its
	// context.
	assert.Equal(t, noCodeFoundNotice, formatContext(nil))
}

// TestResearch_Cancellation covers scenario S4 and testable property 9: a
// probe that flips true after DECOMPOSITION must stop the pipeline before
// any further LLM call, with exactly two progress events and a
// ResearchCancelled{RETRIEVAL} error.
func TestResearch_Cancellation(t *testing.T) {
	searcher := &fakeSearcher{results: []chunk.SearchResult{makeResult("c1", 0.9)}}
	llm := providers.NewMockLLMProvider(
		`{"sub_questions": [{"question": "q1"}]}`,
		`{"follow_up_queries": []}`,
		"answer",
	)
	p := New(searcher, llm)

	var events []chunk.ResearchProgressEvent
	opts := Options{
		ProgressSink: func(ev chunk.ResearchProgressEvent) { events = append(events, ev) },
		// The probe flips true once DECOMPOSITION's single LLM call has
		// happened, simulating "cancellation requested after DECOMPOSITION
		// completes." The probe is next checked at RETRIEVAL's entry.
		CancellationProbe: func() bool {
			return llm.CallCount() >= 1
		},
	}

	result, err := p.Research(context.Background(), "q1", opts)
	require.Nil(t, result)
	require.Error(t, err)

	kind, ok := cortexerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, cortexerr.ResearchCancelled, kind)

	cortexErr, ok := err.(*cortexerr.Error)
	require.True(t, ok)
	assert.Equal(t, string(chunk.StepRetrieval), cortexErr.Step)

	require.Len(t, events, 2)
	assert.Equal(t, chunk.StepDecomposition, events[0].Step)
	assert.Equal(t, chunk.StepCancelled, events[1].Step)
	assert.Equal(t, 1, llm.CallCount())
}

func TestResearch_BudgetExceeded(t *testing.T) {
	searcher := &fakeSearcher{results: []chunk.SearchResult{makeResult("c1", 0.9)}}
	llm := providers.NewMockLLMProvider(
		`{"sub_questions": [{"question": "q1"}]}`,
		`{"follow_up_queries": []}`,
		"answer",
	)
	p := New(searcher, llm)

	_, err := p.Research(context.Background(), "q1", Options{LLMCallCap: 1})
	require.Error(t, err)
	kind, ok := cortexerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, cortexerr.BudgetExceeded, kind)
}

func TestResearch_MaxSubQuestions_ClampedAndExcessDiscarded(t *testing.T) {
	searcher := &fakeSearcher{}
	llm := providers.NewMockLLMProvider(
		`{"sub_questions": [{"question": "a"}, {"question": "b"}, {"question": "c"}]}`,
		`{"follow_up_queries": []}`,
		"answer",
	)
	p := New(searcher, llm)

	result, err := p.Research(context.Background(), "q", Options{MaxSubQuestions: 2})
	require.NoError(t, err)
	assert.Len(t, result.SubQuestions, 2)
}

func TestMergeAggregate_KeepsMaxScore(t *testing.T) {
	r := &run{aggregate: map[string]chunk.SearchResult{}}
	mergeAggregate(r, []chunk.SearchResult{makeResult("c1", 0.3)})
	mergeAggregate(r, []chunk.SearchResult{makeResult("c1", 0.8)})
	assert.Equal(t, 0.8, r.aggregate["c1"].Score)
}
