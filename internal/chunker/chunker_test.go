package chunker

import (
	"testing"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const pySample = `import os
import sys

class Greeter:
    def __init__(self, name):
        self.name = name

    def greet(self):
        return "hi " + self.name


def main():
    Greeter("world").greet()
`

func TestChunkFile_Python_ModuleAlwaysEmitted(t *testing.T) {
	chunks, err := ChunkFile("greet.py", []byte(pySample), chunk.LanguagePython, DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
	assert.Equal(t, chunk.KindModule, chunks[0].Kind)
}

func TestChunkFile_Python_MethodsDoubleRepresented(t *testing.T) {
	chunks, err := ChunkFile("greet.py", []byte(pySample), chunk.LanguagePython, DefaultOptions())
	require.NoError(t, err)

	var class, method *chunk.Chunk
	for i := range chunks {
		if chunks[i].Kind == chunk.KindClass && chunks[i].Name == "Greeter" {
			class = &chunks[i]
		}
		if chunks[i].Kind == chunk.KindMethod && chunks[i].Name == "greet" {
			method = &chunks[i]
		}
	}
	require.NotNil(t, class, "class chunk missing")
	require.NotNil(t, method, "standalone method chunk missing")
	assert.Equal(t, "Greeter", method.ParentName)
	assert.Contains(t, class.Content, "def greet")
}

func TestChunkFile_UnsupportedLanguage_FallsBackToSingleModule(t *testing.T) {
	chunks, err := ChunkFile("data.txt", []byte("hello\nworld\n"), chunk.LanguageUnknown, DefaultOptions())
	require.NoError(t, err)
	require.Len(t, chunks, 1)
	assert.Equal(t, chunk.KindModule, chunks[0].Kind)
}

func TestChunkFile_SizeCap_UsesFixedWindows(t *testing.T) {
	big := make([]byte, 0, 2000)
	for i := 0; i < 200; i++ {
		big = append(big, []byte("line of go-like content padding the file out\n")...)
	}
	opts := DefaultOptions()
	opts.SizeCapBytes = 100
	opts.WindowLines = 10
	opts.WindowOverlapLines = 2

	chunks, err := ChunkFile("huge.go", big, chunk.LanguageGo, opts)
	require.NoError(t, err)
	require.True(t, len(chunks) > 1)
	assert.Equal(t, chunk.KindModule, chunks[0].Kind)
	assert.Equal(t, "true", chunks[0].Metadata["size_capped"])
}

func TestChunkFile_Go_FunctionsAndMethods(t *testing.T) {
	src := `package greet

import "fmt"

type Greeter struct {
	Name string
}

func (g *Greeter) Greet() string {
	return "hi " + g.Name
}

func Main() {
	fmt.Println((&Greeter{Name: "world"}).Greet())
}
`
	chunks, err := ChunkFile("greet.go", []byte(src), chunk.LanguageGo, DefaultOptions())
	require.NoError(t, err)

	var names []string
	for _, c := range chunks {
		names = append(names, c.Name)
	}
	assert.Contains(t, names, "Greeter")
	assert.Contains(t, names, "Greet")
	assert.Contains(t, names, "Main")
}

func TestChunkFile_Markdown_HeaderSections(t *testing.T) {
	src := "# Title\n\nIntro text.\n\n## Section A\n\nBody A.\n\n## Section B\n\nBody B.\n"
	chunks, err := chunkMarkdown("doc.md", []byte(src), DefaultOptions())
	require.NoError(t, err)
	require.True(t, len(chunks) >= 2)
	assert.Equal(t, chunk.KindModule, chunks[0].Kind)
	for _, c := range chunks[1:] {
		assert.Equal(t, chunk.KindOther, c.Kind)
	}
}

func TestChunkFile_InvalidUTF8_Replaced(t *testing.T) {
	src := append([]byte("package x\n\nfunc F() {}\n"), 0xff, 0xfe)
	chunks, err := ChunkFile("bad.go", src, chunk.LanguageGo, DefaultOptions())
	require.NoError(t, err)
	require.NotEmpty(t, chunks)
}

func TestMergeSmallChunks_AbsorbsIntoPreceding(t *testing.T) {
	chunks := []chunk.Chunk{
		{Kind: chunk.KindModule, Content: "module", StartLine: 1, EndLine: 1},
		{Kind: chunk.KindConstant, Content: "x", StartLine: 2, EndLine: 2},
	}
	merged := mergeSmallChunks(chunks, 20)
	require.Len(t, merged, 1)
	assert.Contains(t, merged[0].Content, "x")
}
