package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/providers"
)

const gapAnalysisSystemPrompt = `You assess whether retrieved code chunks sufficiently cover a question. Respond with a single JSON object of the exact shape {"follow_up_queries": ["...", "..."]} and nothing else. An empty list means the coverage is sufficient.`

type gapAnalysisResponse struct {
	FollowUpQueries []string `json:"follow_up_queries"`
}

// gapAnalysis runs the GAP_ANALYSIS step: one LLM call that summarises
// coverage of the aggregate against the original question and proposes up
// to max_follow_ups follow-up queries. Invalid JSON yields zero follow-ups
// rather than failing the pipeline (§4.E).
func (p *Pipeline) gapAnalysis(ctx context.Context, r *run) ([]string, error) {
	exit, err := p.enterStep(r, chunk.StepGapAnalysis)
	if err != nil {
		return nil, err
	}

	if err := p.beforeLLMCall(r, chunk.StepGapAnalysis); err != nil {
		return nil, err
	}

	prompt := fmt.Sprintf("Original question: %s\n\nRetrieved chunk file paths:\n%s",
		r.question, formatChunkPathList(r))

	raw, err := p.llm.Generate(ctx, providers.GenerateRequest{
		System: gapAnalysisSystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return nil, err
	}

	var resp gapAnalysisResponse
	var followUps []string
	if parseLeniently(raw, &resp) {
		followUps = resp.FollowUpQueries
	}
	if len(followUps) > r.opts.MaxFollowUps {
		followUps = followUps[:r.opts.MaxFollowUps]
	}

	exit(fmt.Sprintf("%d follow-up(s)", len(followUps)), followUps)
	return followUps, nil
}

func formatChunkPathList(r *run) string {
	var b strings.Builder
	for _, res := range sortedAggregate(r) {
		fmt.Fprintf(&b, "- %s:%d-%d\n", res.Chunk.FilePath, res.Chunk.StartLine, res.Chunk.EndLine)
	}
	if b.Len() == 0 {
		return "(none retrieved)"
	}
	return b.String()
}
