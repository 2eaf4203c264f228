package indexer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContentHash_SameBytesSameHash(t *testing.T) {
	a := contentHash([]byte("hello"))
	b := contentHash([]byte("hello"))
	c := contentHash([]byte("world"))
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDetectLanguage_Extension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "main.py")
	require.NoError(t, os.WriteFile(path, []byte("print(1)\n"), 0o644))
	assert.Equal(t, chunk.LanguagePython, detectLanguage(path))
}

func TestDetectLanguage_ShebangFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "script")
	require.NoError(t, os.WriteFile(path, []byte("#!/usr/bin/env python3\nprint(1)\n"), 0o644))
	assert.Equal(t, chunk.LanguagePython, detectLanguage(path))
}

func TestDetectLanguage_NoShebangUnknown(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data")
	require.NoError(t, os.WriteFile(path, []byte("just some text\n"), 0o644))
	assert.Equal(t, chunk.LanguageUnknown, detectLanguage(path))
}
