package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbeddingProvider_Deterministic(t *testing.T) {
	m := NewMockEmbeddingProvider(16)
	v1, err := m.Embed(context.Background(), []string{"hello"})
	require.NoError(t, err)
	v2, err := m.Embed(context.Background(), []string{"hello"})
	require.NoError(t, err)
	assert.Equal(t, v1, v2)
	assert.Len(t, v1[0], 16)
}

func TestMockLLMProvider_ReturnsResponsesInOrderThenRepeatsLast(t *testing.T) {
	m := NewMockLLMProvider("first", "second")
	r1, err := m.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	r2, err := m.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	r3, err := m.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "first", r1)
	assert.Equal(t, "second", r2)
	assert.Equal(t, "second", r3)
}
