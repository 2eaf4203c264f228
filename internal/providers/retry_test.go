package providers

import (
	"context"
	"testing"
	"time"

	"github.com/cortex-research/cortex/internal/cortexerr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetry_RetriesOnRetryableKind(t *testing.T) {
	attempts := 0
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond, JitterFactor: 0.1}

	err := Retry(context.Background(), "test-op", policy, func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return cortexerr.New(cortexerr.ConnectionUnavailable, "down")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetry_DoesNotRetryNonRetryableKind(t *testing.T) {
	attempts := 0
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	err := Retry(context.Background(), "test-op", policy, func(ctx context.Context) error {
		attempts++
		return cortexerr.New(cortexerr.ModelNotFound, "no model")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
	kind, ok := cortexerr.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, cortexerr.ModelNotFound, kind)
}

func TestRetry_DoesNotRetryUnclassifiedError(t *testing.T) {
	attempts := 0
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}

	err := Retry(context.Background(), "test-op", policy, func(ctx context.Context) error {
		attempts++
		return assert.AnError
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetry_GivesUpAfterMaxAttempts(t *testing.T) {
	attempts := 0
	policy := RetryPolicy{MaxAttempts: 2, BaseDelay: time.Millisecond}

	err := Retry(context.Background(), "test-op", policy, func(ctx context.Context) error {
		attempts++
		return cortexerr.New(cortexerr.RateLimited, "throttled")
	})
	require.Error(t, err)
	assert.Equal(t, 2, attempts)
}

func TestRetry_RespectsCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, "test-op", DefaultRetryPolicy(), func(ctx context.Context) error {
		t.Fatal("fn should not be called on an already-cancelled context")
		return nil
	})
	require.Error(t, err)
}

func TestModelNotFound_MessageShape(t *testing.T) {
	err := ModelNotFound("gpt-ghost", []string{"a", "b", "c"}, 2)
	assert.Contains(t, err.Message, "gpt-ghost")
	assert.Contains(t, err.Message, "a, b")
	assert.Contains(t, err.Message, "1 more")
	assert.Equal(t, cortexerr.ModelNotFound, err.Kind)
}

func TestConnectionUnavailable_MessageShape(t *testing.T) {
	err := ConnectionUnavailable("http://localhost:11434", assert.AnError)
	assert.Contains(t, err.Message, "http://localhost:11434")
	assert.Equal(t, cortexerr.ConnectionUnavailable, err.Kind)
}
