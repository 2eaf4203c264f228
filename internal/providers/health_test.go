package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthGate_ChecksOnlyOnce(t *testing.T) {
	mock := NewMockLLMProvider("ok")
	gate := NewHealthGate(mock)

	require.NoError(t, gate.EnsureHealthy(context.Background()))
	// A health failure after the first check goes unseen: the gate does
	// not call CheckHealth a second time.
	mock.SetHealthError(assert.AnError)
	require.NoError(t, gate.EnsureHealthy(context.Background()))

	// CheckHealth itself isn't call-counted by the mock, but Generate is;
	// verify the gate didn't consume a scripted response by checking the
	// first Generate call still returns the first response.
	text, err := mock.Generate(context.Background(), GenerateRequest{})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)
}

func TestHealthGate_CachesFailure(t *testing.T) {
	mock := NewMockLLMProvider()
	mock.SetHealthError(assert.AnError)
	gate := NewHealthGate(mock)

	err1 := gate.EnsureHealthy(context.Background())
	err2 := gate.EnsureHealthy(context.Background())
	require.Error(t, err1)
	require.Error(t, err2)
	assert.Equal(t, err1, err2)
}
