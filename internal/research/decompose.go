package research

import (
	"context"
	"fmt"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/providers"
)

const decompositionSystemPrompt = `You break a question about a source code repository into a small set of focused sub-questions. Respond with a single JSON object of the exact shape {"sub_questions": [{"question": "...", "category": "IMPLEMENTATION|ARCHITECTURE|USAGE|INTEGRATION|EDGE_CASES", "rationale": "..."}]} and nothing else.`

type decompositionResponse struct {
	SubQuestions []struct {
		Question  string `json:"question"`
		Category  string `json:"category"`
		Rationale string `json:"rationale"`
	} `json:"sub_questions"`
}

// decomposition runs the DECOMPOSITION step: one LLM call asked to split
// the question into sub-questions, parsed leniently with a single-question
// fallback (§4.E).
func (p *Pipeline) decomposition(ctx context.Context, r *run) ([]chunk.SubQuestion, error) {
	exit, err := p.enterStep(r, chunk.StepDecomposition)
	if err != nil {
		return nil, err
	}

	if err := p.beforeLLMCall(r, chunk.StepDecomposition); err != nil {
		return nil, err
	}

	raw, err := p.llm.Generate(ctx, providers.GenerateRequest{
		System: decompositionSystemPrompt,
		Prompt: r.question,
	})
	if err != nil {
		return nil, err
	}

	subQuestions := parseSubQuestions(raw, r.question)
	if len(subQuestions) > r.opts.MaxSubQuestions {
		subQuestions = subQuestions[:r.opts.MaxSubQuestions]
	}

	exit(fmt.Sprintf("%d sub-question(s)", len(subQuestions)), subQuestions)
	return subQuestions, nil
}

// parseSubQuestions parses the DECOMPOSITION response leniently; any
// parsing or shape failure falls back to a single sub-question equal to the
// original question, per §4.E.
func parseSubQuestions(raw, original string) []chunk.SubQuestion {
	var resp decompositionResponse
	if !parseLeniently(raw, &resp) || len(resp.SubQuestions) == 0 {
		return []chunk.SubQuestion{{Question: original, Category: chunk.CategoryImplementation}}
	}

	out := make([]chunk.SubQuestion, 0, len(resp.SubQuestions))
	for _, sq := range resp.SubQuestions {
		question := sq.Question
		if question == "" {
			continue
		}
		out = append(out, chunk.SubQuestion{
			Question:  question,
			Category:  chunk.NormalizeCategory(sq.Category),
			Rationale: sq.Rationale,
		})
	}
	if len(out) == 0 {
		return []chunk.SubQuestion{{Question: original, Category: chunk.CategoryImplementation}}
	}
	return out
}
