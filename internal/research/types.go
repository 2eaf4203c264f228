// Package research implements spec.md §4.E's deep-research pipeline: a
// linear five-step state machine that decomposes a question, retrieves
// candidate chunks in parallel, identifies gaps, refines retrieval, and
// synthesises an answer grounded in the retrieved code.
//
// Grounded on the teacher's absence of an equivalent pipeline: the shape is
// built fresh from spec.md §4.E, following Aman-CERP-amanmcp's
// internal/search/multi_query.go for the parallel sub-query fan-out and
// kadirpekel-hector's v2/rag package for the staged-pipeline-over-an-LLM
// idiom (prompt construction, one call per step, a reasoning trace
// accumulated alongside the answer).
package research

import (
	"context"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/vectorstore"
)

// Options configures one research call (§4.E, §6's configuration surface).
type Options struct {
	MaxSubQuestions         int // default 5, hard cap 10
	MaxChunksPerSubQuestion int // default 8, bounded [1, 50]
	MaxFollowUps            int // default 3, hard cap 8
	MaxContextChunks        int // default 30
	LLMCallCap              int // default 15

	// ProgressSink receives a ResearchProgressEvent at every step exit. May
	// be nil.
	ProgressSink func(chunk.ResearchProgressEvent)

	// CancellationProbe is polled at every step boundary and before every
	// LLM call (§5's "Cancellation" rule). A nil probe never cancels.
	CancellationProbe func() bool
}

const (
	defaultMaxSubQuestions         = 5
	hardCapMaxSubQuestions         = 10
	defaultMaxChunksPerSubQuestion = 8
	minChunksPerSubQuestion        = 1
	maxChunksPerSubQuestion        = 50
	defaultMaxFollowUps            = 3
	hardCapMaxFollowUps            = 8
	defaultMaxContextChunks        = 30
	defaultLLMCallCap              = 15

	// retrievalWorkerCap bounds the parallel sub-question fan-out (§4.E
	// RETRIEVAL: "up to a worker cap"), mirroring multi_query.go's default
	// parallelism of 4.
	retrievalWorkerCap = 4

	// perChunkCharBudget caps each formatted chunk's content in the
	// SYNTHESIS prompt so the aggregate fits the model window (§4.E).
	perChunkCharBudget = 2000
)

// normalize clamps every option to its documented default/bound.
func (o Options) normalize() Options {
	if o.MaxSubQuestions <= 0 {
		o.MaxSubQuestions = defaultMaxSubQuestions
	}
	if o.MaxSubQuestions > hardCapMaxSubQuestions {
		o.MaxSubQuestions = hardCapMaxSubQuestions
	}
	if o.MaxChunksPerSubQuestion <= 0 {
		o.MaxChunksPerSubQuestion = defaultMaxChunksPerSubQuestion
	}
	if o.MaxChunksPerSubQuestion < minChunksPerSubQuestion {
		o.MaxChunksPerSubQuestion = minChunksPerSubQuestion
	}
	if o.MaxChunksPerSubQuestion > maxChunksPerSubQuestion {
		o.MaxChunksPerSubQuestion = maxChunksPerSubQuestion
	}
	if o.MaxFollowUps <= 0 {
		o.MaxFollowUps = defaultMaxFollowUps
	}
	if o.MaxFollowUps > hardCapMaxFollowUps {
		o.MaxFollowUps = hardCapMaxFollowUps
	}
	if o.MaxContextChunks <= 0 {
		o.MaxContextChunks = defaultMaxContextChunks
	}
	if o.LLMCallCap <= 0 {
		o.LLMCallCap = defaultLLMCallCap
	}
	return o
}

// ReasoningStep is one entry of the output's reasoning trace: a terse,
// payload-free summary of a completed step (§4.E "Output").
type ReasoningStep struct {
	Step       chunk.ResearchStep
	StepNumber int
	DurationMS int64
	Summary    string
}

// Result is the pipeline's output (§4.E "Output").
type Result struct {
	Answer               string
	ReasoningTrace       []ReasoningStep
	SubQuestions         []chunk.SubQuestion
	TotalChunksRetrieved int
	LLMCalls             int
}

// Searcher is the subset of the vector store contract the pipeline needs
// (§4.E's "vector_store.search(sub.question, limit=...)"). *vectorstore.Store
// satisfies this directly.
type Searcher interface {
	Search(ctx context.Context, queryText string, limit int, filters vectorstore.SearchFilters) ([]chunk.SearchResult, error)
}
