package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/providers"
)

const synthesisSystemPrompt = `You answer questions about a source code repository using only the provided code excerpts. Cite file paths and line ranges. Never invent a citation that is not present in the excerpts.`

const noCodeFoundNotice = "No code was found for this question. State plainly that nothing relevant was retrieved; do not fabricate citations or file paths."

// synthesis runs the SYNTHESIS step: truncates the aggregate to
// max_context_chunks, formats it into the prompt, and issues one LLM call
// for the final answer (§4.E).
func (p *Pipeline) synthesis(ctx context.Context, r *run) (string, error) {
	exit, err := p.enterStep(r, chunk.StepSynthesis)
	if err != nil {
		return "", err
	}

	ranked := sortedAggregate(r)
	if len(ranked) > r.opts.MaxContextChunks {
		ranked = ranked[:r.opts.MaxContextChunks]
	}

	if err := p.beforeLLMCall(r, chunk.StepSynthesis); err != nil {
		return "", err
	}

	prompt := fmt.Sprintf("Question: %s\n\n%s", r.question, formatContext(ranked))

	answer, err := p.llm.Generate(ctx, providers.GenerateRequest{
		System: synthesisSystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return "", err
	}

	exit(fmt.Sprintf("%d context chunk(s), %d char answer", len(ranked), len(answer)), len(ranked))
	return answer, nil
}

// formatContext renders the ranked chunks as "file_path:start-end" plus
// content, each capped by perChunkCharBudget, or an explicit "no code
// found" notice when the aggregate is empty (§4.E).
func formatContext(ranked []chunk.SearchResult) string {
	if len(ranked) == 0 {
		return noCodeFoundNotice
	}

	var b strings.Builder
	for _, res := range ranked {
		content := res.Chunk.Content
		if len(content) > perChunkCharBudget {
			content = content[:perChunkCharBudget]
		}
		fmt.Fprintf(&b, "### %s:%d-%d\n```\n%s\n```\n\n",
			res.Chunk.FilePath, res.Chunk.StartLine, res.Chunk.EndLine, content)
	}
	return b.String()
}
