package providers

import (
	"context"
	"sync"
	"time"
)

// HealthStatus is the closed set an LLM provider's health check reports.
// Grounded on kadirpekel-hector's v2/rag/health.go HealthStatus enum,
// narrowed to the two states §4.D actually distinguishes (a provider is
// either reachable or it raises ConnectionUnavailable/ModelNotFound).
type HealthStatus string

const (
	HealthStatusHealthy   HealthStatus = "healthy"
	HealthStatusUnhealthy HealthStatus = "unhealthy"
)

// HealthCheck is the result of one check_health call.
type HealthCheck struct {
	Provider  string
	Status    HealthStatus
	Message   string
	Latency   time.Duration
	Timestamp time.Time
}

// HealthGate enforces §4.D's "check_health() must be called once before
// the first generate; subsequent generates skip it" rule around an
// LLMProvider, so callers don't have to remember the discipline
// themselves.
type HealthGate struct {
	provider LLMProvider
	once     sync.Once
	err      error
}

// NewHealthGate wraps provider with the once-before-first-call discipline.
func NewHealthGate(provider LLMProvider) *HealthGate {
	return &HealthGate{provider: provider}
}

// EnsureHealthy runs CheckHealth exactly once across the gate's lifetime,
// caching the outcome (including a failure) for every subsequent call.
func (g *HealthGate) EnsureHealthy(ctx context.Context) error {
	g.once.Do(func() {
		g.err = g.provider.CheckHealth(ctx)
	})
	return g.err
}
