// Package providers defines the embedding and LLM provider contracts
// (§4.D) and the retry decorator every outbound provider call is wrapped
// with. Concrete provider implementations (a specific embedding model, a
// specific LLM backend) are an external collaborator per spec.md §1; this
// package is the contract they satisfy plus the policy the rest of the
// system relies on.
package providers

import "context"

// EmbeddingProvider embeds text into fixed-dimension vectors. Grounded on
// the teacher's internal/embed/provider.go Provider interface, generalised
// from its query/passage EmbedMode distinction (embedding mode is a
// concern of the concrete provider's prompt template, not of this
// contract).
type EmbeddingProvider interface {
	Name() string
	// Dimensions matches vectorstore.Embedder's method name so a concrete
	// provider satisfies both contracts without an adapter.
	Dimensions() int
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// LLMProvider generates text completions. Grounded on
// Aman-CERP-amanmcp/internal/embed/ollama.go's health-check-before-first-call
// discipline and kadirpekel-hector/v2/rag/health.go's HealthCheck shape.
type LLMProvider interface {
	Name() string
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	GenerateStream(ctx context.Context, req GenerateRequest) (<-chan StreamDelta, error)
	CheckHealth(ctx context.Context) error
	// MaxConcurrency is the provider's declared safe fan-out width, which
	// the wiki generator (§4.F) must respect when regenerating pages in
	// parallel (§5).
	MaxConcurrency() int
}

// GenerateRequest is the common shape of a single generate/generate_stream
// call (§4.D).
type GenerateRequest struct {
	Prompt      string
	System      string
	MaxTokens   int
	Temperature float64
}

// StreamDelta is one chunk of a generate_stream response. The stream is
// finite: it completes when the provider closes the channel, optionally
// with a terminal Err.
type StreamDelta struct {
	Text string
	Err  error
}
