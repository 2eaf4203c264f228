package research

import (
	"context"
	"fmt"

	"github.com/cortex-research/cortex/internal/chunk"
)

// retrieval runs the RETRIEVAL step: one vector_store.search per
// sub-question, in parallel, merged into the running aggregate (§4.E).
func (p *Pipeline) retrieval(ctx context.Context, r *run, subQuestions []chunk.SubQuestion) error {
	exit, err := p.enterStep(r, chunk.StepRetrieval)
	if err != nil {
		return err
	}

	questions := make([]string, len(subQuestions))
	for i, sq := range subQuestions {
		questions[i] = sq.Question
	}
	if err := p.searchSubQuestions(ctx, r, questions); err != nil {
		return err
	}

	exit(fmt.Sprintf("%d chunk(s) in aggregate", len(r.aggregate)), len(r.aggregate))
	return nil
}

// refinedRetrieval runs the REFINED_RETRIEVAL step: the follow-up queries
// from GAP_ANALYSIS, searched and merged the same way as RETRIEVAL (§4.E).
// Callers must skip this step entirely when there are zero follow-ups.
func (p *Pipeline) refinedRetrieval(ctx context.Context, r *run, followUps []string) error {
	exit, err := p.enterStep(r, chunk.StepRefinedRetrieval)
	if err != nil {
		return err
	}

	if err := p.searchSubQuestions(ctx, r, followUps); err != nil {
		return err
	}

	exit(fmt.Sprintf("%d chunk(s) in aggregate after refinement", len(r.aggregate)), len(r.aggregate))
	return nil
}
