package providers

import (
	"context"
	"log"
	"math"
	"math/rand"
	"time"

	"github.com/cortex-research/cortex/internal/cortexerr"
)

// RetryPolicy configures the exponential-backoff decorator (§4.D).
type RetryPolicy struct {
	MaxAttempts  int           // default 3
	BaseDelay    time.Duration // default 1s
	JitterFactor float64       // default 0.25, up to 25% jitter
}

// DefaultRetryPolicy matches §4.D's stated defaults exactly.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, JitterFactor: 0.25}
}

// Retry wraps fn with exponential backoff: delay at attempt k (1-indexed)
// is BaseDelay * 2^(k-1), jittered by up to JitterFactor. Retries only if
// the error's cortexerr.Kind reports Retryable(); every other error
// (including a plain, unclassified error) propagates immediately, matching
// §4.D's "all other error kinds propagate immediately." operation names
// the call for logging only -- the decorator never renames or reshapes
// fn's own error, so the wrapped call's identity survives in logs and in
// the returned error exactly as it would unwrapped.
//
// Grounded on kadirpekel-hector's v2/rag/retry.go Retryer.Do, adapted from
// substring-matched retryability (RetryableErrors []string) to the typed
// Kind.Retryable() check §7 requires.
func Retry(ctx context.Context, operation string, policy RetryPolicy, fn func(ctx context.Context) error) error {
	policy = normalizePolicy(policy)

	var lastErr error
	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		kind, ok := cortexerr.KindOf(err)
		if !ok || !kind.Retryable() {
			return err
		}
		if attempt == policy.MaxAttempts {
			break
		}

		delay := backoffDelay(policy, attempt)
		log.Printf("retrying %s (attempt %d/%d) after %v: %v", operation, attempt, policy.MaxAttempts, delay, err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
	return lastErr
}

func normalizePolicy(p RetryPolicy) RetryPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.BaseDelay <= 0 {
		p.BaseDelay = time.Second
	}
	if p.JitterFactor <= 0 {
		p.JitterFactor = 0.25
	}
	return p
}

func backoffDelay(p RetryPolicy, attempt int) time.Duration {
	base := float64(p.BaseDelay) * math.Pow(2, float64(attempt-1))
	jitter := base * p.JitterFactor * (rand.Float64()*2 - 1)
	delay := base + jitter
	if delay < 0 {
		delay = 0
	}
	return time.Duration(delay)
}
