package research

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/cortexerr"
	"github.com/cortex-research/cortex/internal/providers"
	"github.com/cortex-research/cortex/internal/vectorstore"
	"golang.org/x/sync/errgroup"
)

// Pipeline runs the deep-research state machine over a vector store and an
// LLM provider (§4.E).
type Pipeline struct {
	store Searcher
	llm   providers.LLMProvider
}

// New builds a Pipeline. store is typically a *vectorstore.Store.
func New(store Searcher, llm providers.LLMProvider) *Pipeline {
	return &Pipeline{store: store, llm: llm}
}

// run carries the mutable state threaded through every step.
type run struct {
	opts       Options
	question   string
	stepNumber int
	llmCalls   int
	trace      []ReasoningStep
	aggregate  map[string]chunk.SearchResult // keyed by chunk id, max score kept
}

// Research executes the five-step pipeline for question and returns the
// synthesised result, or a *cortexerr.Error of kind ResearchCancelled or
// BudgetExceeded.
func (p *Pipeline) Research(ctx context.Context, question string, opts Options) (*Result, error) {
	opts = opts.normalize()
	r := &run{opts: opts, question: question, aggregate: map[string]chunk.SearchResult{}}

	subQuestions, err := p.decomposition(ctx, r)
	if err != nil {
		return nil, err
	}

	if err := p.retrieval(ctx, r, subQuestions); err != nil {
		return nil, err
	}

	followUps, err := p.gapAnalysis(ctx, r)
	if err != nil {
		return nil, err
	}

	if len(followUps) > 0 {
		if err := p.refinedRetrieval(ctx, r, followUps); err != nil {
			return nil, err
		}
	}

	answer, err := p.synthesis(ctx, r)
	if err != nil {
		return nil, err
	}

	return &Result{
		Answer:               answer,
		ReasoningTrace:       r.trace,
		SubQuestions:         subQuestions,
		TotalChunksRetrieved: len(r.aggregate),
		LLMCalls:             r.llmCalls,
	}, nil
}

// enterStep assigns the next monotonic step number, probes for
// cancellation, and returns a function to call at step exit that records
// the reasoning-trace entry and emits the progress event. Per §4.E,
// cancellation is probed "between any two steps" -- i.e. at entry to every
// step including the first.
func (p *Pipeline) enterStep(r *run, step chunk.ResearchStep) (exit func(summary string, payload any), cancelErr error) {
	r.stepNumber++
	number := r.stepNumber
	started := stepClock()

	if probeCancelled(r.opts.CancellationProbe) {
		emitProgress(r.opts.ProgressSink, chunk.ResearchProgressEvent{
			Step:       chunk.StepCancelled,
			StepNumber: number,
		})
		return nil, cortexerr.Cancelled(string(step))
	}

	exit = func(summary string, payload any) {
		duration := stepClock() - started
		r.trace = append(r.trace, ReasoningStep{
			Step: step, StepNumber: number, DurationMS: duration, Summary: summary,
		})
		emitProgress(r.opts.ProgressSink, chunk.ResearchProgressEvent{
			Step: step, StepNumber: number, DurationMS: duration, Payload: payload,
		})
	}
	return exit, nil
}

// beforeLLMCall probes for cancellation immediately before an outbound
// provider call (§4.E, §5) and enforces the llm_call_cap (§4.E "LLM call
// accounting").
func (p *Pipeline) beforeLLMCall(r *run, step chunk.ResearchStep) error {
	if probeCancelled(r.opts.CancellationProbe) {
		emitProgress(r.opts.ProgressSink, chunk.ResearchProgressEvent{
			Step:       chunk.StepCancelled,
			StepNumber: r.stepNumber,
		})
		return cortexerr.Cancelled(string(step))
	}
	if r.llmCalls+1 > r.opts.LLMCallCap {
		return cortexerr.New(cortexerr.BudgetExceeded,
			"llm_call_cap of %d reached before %s", r.opts.LLMCallCap, step)
	}
	r.llmCalls++
	return nil
}

func probeCancelled(probe func() bool) bool {
	return probe != nil && probe()
}

func emitProgress(sink func(chunk.ResearchProgressEvent), ev chunk.ResearchProgressEvent) {
	if sink != nil {
		sink(ev)
	}
}

// mergeAggregate folds results into r.aggregate, keeping the maximum score
// per chunk id (§4.E RETRIEVAL: "duplicates are merged keeping the maximum
// score").
func mergeAggregate(r *run, results []chunk.SearchResult) {
	for _, res := range results {
		existing, ok := r.aggregate[res.Chunk.ID]
		if !ok || res.Score > existing.Score {
			r.aggregate[res.Chunk.ID] = res
		}
	}
}

// searchSubQuestions runs one vector_store.search per question in parallel,
// bounded by retrievalWorkerCap, and merges results into r.aggregate.
// Grounded on Aman-CERP-amanmcp's internal/search/multi_query.go
// parallelSubSearch: an errgroup with SetLimit bounding fan-out, with one
// deviation from that teacher shape -- a single sub-question's search error
// there is tolerated (logged, empty result); here it is NOT tolerated,
// because §4.E gives the research pipeline no "partial retrieval" mode and
// §7 states pipeline errors propagate to the caller, unlike a page
// regeneration error which is contained.
func (p *Pipeline) searchSubQuestions(ctx context.Context, r *run, questions []string) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(retrievalWorkerCap)

	resultsCh := make(chan []chunk.SearchResult, len(questions))
	for _, q := range questions {
		q := q
		g.Go(func() error {
			res, err := p.store.Search(gctx, q, r.opts.MaxChunksPerSubQuestion, vectorstore.SearchFilters{})
			if err != nil {
				return fmt.Errorf("search %q: %w", q, err)
			}
			resultsCh <- res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	close(resultsCh)

	for res := range resultsCh {
		mergeAggregate(r, res)
	}
	return nil
}

// sortedAggregate returns the aggregate as a slice ordered by score
// descending then id ascending (§4.E SYNTHESIS).
func sortedAggregate(r *run) []chunk.SearchResult {
	out := make([]chunk.SearchResult, 0, len(r.aggregate))
	for _, res := range r.aggregate {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Chunk.ID < out[j].Chunk.ID
	})
	return out
}

// stepClock returns milliseconds elapsed since process start, using the
// monotonic clock reading time.Now() carries so step durations are immune
// to wall-clock adjustments.
var processStart = time.Now()

func stepClock() int64 {
	return time.Since(processStart).Milliseconds()
}
