// Package chunker implements chunk_file (spec §4.A): parsing a file's bytes
// into an ordered sequence of chunk.Chunk values along the source language's
// top-level declarations, with a MODULE chunk always present, small chunks
// merged into their predecessor, a fixed-line-window fallback for
// oversized files, and a single whole-file MODULE chunk for languages
// without a registered extractor.
//
// Grounded on the teacher's multiLanguageParser (internal/indexer/parser.go),
// which dispatches by extension to go/ast or one tree-sitter grammar per
// language; this package keeps that dispatch shape but emits full-content
// chunk.Chunk values instead of the teacher's signature-only Definitions.
package chunker

import (
	"log"
	"strings"
	"unicode/utf8"

	"github.com/cortex-research/cortex/internal/chunk"
)

// Options tunes the chunking strategy. Zero value is invalid; use
// DefaultOptions.
type Options struct {
	// MinChunkBytes is the minimum content size (in bytes) a non-MODULE
	// chunk may stand alone at; smaller chunks are merged into the chunk
	// emitted immediately before them. Spec default is 20.
	MinChunkBytes int
	// SizeCapBytes is the file size above which the concrete-syntax-tree
	// strategy is bypassed in favor of fixed-line windows.
	SizeCapBytes int
	// WindowLines is the window size (in source lines) used by the
	// size-cap and unsupported-language fallback.
	WindowLines int
	// WindowOverlapLines is the number of lines consecutive fallback
	// windows share.
	WindowOverlapLines int
}

// DefaultOptions mirrors the teacher's ChunkingConfig defaults
// (internal/config/config.go), extended with the merge/size-cap knobs §4.A
// requires.
func DefaultOptions() Options {
	return Options{
		MinChunkBytes:      20,
		SizeCapBytes:       512 * 1024,
		WindowLines:        200,
		WindowOverlapLines: 20,
	}
}

// rawDecl is a single top-level-or-nested declaration found by a
// per-language extractor, before the minimum-size merge pass runs.
type rawDecl struct {
	Name       string
	Kind       chunk.Kind
	StartLine  int
	EndLine    int
	ParentName string
}

// extraction is what a per-language extractor produces from one file's
// source lines.
type extraction struct {
	// ModuleEnd is the last line (1-indexed, inclusive) of the leading
	// comments-and-imports region that becomes the file's MODULE chunk.
	// Zero means no leading region; the MODULE chunk still covers line 1.
	ModuleEnd   int
	Decls       []rawDecl
	Partial     bool // true if the parser's tree reported syntax errors
	ImportCount int
}

// extractor is implemented once per language family: go/ast for Go, one
// generic tree-sitter walker configured per grammar for everything else.
type extractor interface {
	extract(source []byte, lines []string) (extraction, error)
}

var extractors = map[chunk.Language]extractor{
	chunk.LanguageGo:         goExtractor{},
	chunk.LanguageTypeScript: newTreeSitterExtractor(chunk.LanguageTypeScript),
	chunk.LanguageJavaScript: newTreeSitterExtractor(chunk.LanguageJavaScript),
	chunk.LanguagePython:     newTreeSitterExtractor(chunk.LanguagePython),
	chunk.LanguageRust:       newTreeSitterExtractor(chunk.LanguageRust),
	chunk.LanguageC:          newTreeSitterExtractor(chunk.LanguageC),
	chunk.LanguageCPP:        newTreeSitterExtractor(chunk.LanguageCPP),
	chunk.LanguageJava:       newTreeSitterExtractor(chunk.LanguageJava),
	chunk.LanguagePHP:        newTreeSitterExtractor(chunk.LanguagePHP),
	chunk.LanguageRuby:       newTreeSitterExtractor(chunk.LanguageRuby),
}

// ChunkFile implements chunk_file(path, bytes, language). It is pure given
// the same bytes, language, and grammar version.
func ChunkFile(path string, source []byte, language chunk.Language, opts Options) ([]chunk.Chunk, error) {
	source, warn := sanitizeUTF8(source)
	if warn {
		log.Printf("chunker: %s contains invalid UTF-8, replaced with U+FFFD", path)
	}

	if language == chunk.LanguageMarkdown {
		return chunkMarkdown(path, source, opts)
	}

	if len(source) > opts.SizeCapBytes {
		return windowChunks(path, source, language, opts), nil
	}

	ex, ok := extractors[language]
	if !ok {
		return []chunk.Chunk{wholeFileModuleChunk(path, source, language)}, nil
	}

	lines := splitLines(source)
	result, err := ex.extract(source, lines)
	if err != nil {
		log.Printf("chunker: %s failed to parse (%v), falling back to MODULE chunk", path, err)
		return []chunk.Chunk{wholeFileModuleChunk(path, source, language)}, nil
	}

	return assemble(path, source, lines, language, result, opts), nil
}

// assemble turns one extraction into the final ordered, merged chunk list.
func assemble(path string, source []byte, lines []string, language chunk.Language, ex extraction, opts Options) []chunk.Chunk {
	moduleEnd := ex.ModuleEnd
	if moduleEnd < 1 {
		moduleEnd = 1
	}
	if moduleEnd > len(lines) {
		moduleEnd = len(lines)
	}

	chunks := make([]chunk.Chunk, 0, len(ex.Decls)+1)
	module := chunk.Chunk{
		ID:        chunk.MakeID(path, 1, moduleEnd, ""),
		FilePath:  path,
		Language:  language,
		Kind:      chunk.KindModule,
		Content:   joinLines(lines, 1, moduleEnd),
		StartLine: 1,
		EndLine:   moduleEnd,
		Metadata:  map[string]string{},
	}
	if ex.Partial {
		module.Metadata[chunk.MetadataPartial] = "true"
	}
	chunks = append(chunks, module)

	for _, d := range ex.Decls {
		content := joinLines(lines, d.StartLine, d.EndLine)
		c := chunk.Chunk{
			ID:         chunk.MakeID(path, d.StartLine, d.EndLine, d.Name),
			FilePath:   path,
			Language:   language,
			Kind:       d.Kind,
			Name:       d.Name,
			Content:    content,
			StartLine:  d.StartLine,
			EndLine:    d.EndLine,
			ParentName: d.ParentName,
			Metadata:   map[string]string{},
		}
		if ex.Partial {
			c.Metadata[chunk.MetadataPartial] = "true"
		}
		chunks = append(chunks, c)
	}

	return mergeSmallChunks(chunks, opts.MinChunkBytes)
}

// mergeSmallChunks absorbs any chunk smaller than minBytes into the chunk
// emitted immediately before it (spec §4.A); MODULE is exempt as a merge
// *target* reduction (it is never dropped) but may absorb a following
// undersized chunk.
func mergeSmallChunks(chunks []chunk.Chunk, minBytes int) []chunk.Chunk {
	if len(chunks) == 0 {
		return chunks
	}
	merged := []chunk.Chunk{chunks[0]}
	for _, c := range chunks[1:] {
		if c.Kind != chunk.KindModule && len(c.Content) < minBytes {
			prev := &merged[len(merged)-1]
			prev.Content = prev.Content + "\n" + c.Content
			prev.EndLine = c.EndLine
			continue
		}
		merged = append(merged, c)
	}
	return merged
}

func wholeFileModuleChunk(path string, source []byte, language chunk.Language) chunk.Chunk {
	lines := splitLines(source)
	end := len(lines)
	if end < 1 {
		end = 1
	}
	return chunk.Chunk{
		ID:        chunk.MakeID(path, 1, end, ""),
		FilePath:  path,
		Language:  language,
		Kind:      chunk.KindModule,
		Content:   string(source),
		StartLine: 1,
		EndLine:   end,
		Metadata:  map[string]string{},
	}
}

// windowChunks implements the size-cap edge case: fixed-line windows with
// overlap, independent of any grammar.
func windowChunks(path string, source []byte, language chunk.Language, opts Options) []chunk.Chunk {
	lines := splitLines(source)
	windowLines, overlap := opts.WindowLines, opts.WindowOverlapLines
	if windowLines <= 0 {
		windowLines = 200
	}
	if overlap < 0 || overlap >= windowLines {
		overlap = 0
	}

	var chunks []chunk.Chunk
	start := 1
	first := true
	for start <= len(lines) {
		end := start + windowLines - 1
		if end > len(lines) {
			end = len(lines)
		}
		kind := chunk.KindOther
		if first {
			kind = chunk.KindModule
			first = false
		}
		chunks = append(chunks, chunk.Chunk{
			ID:        chunk.MakeID(path, start, end, ""),
			FilePath:  path,
			Language:  language,
			Kind:      kind,
			Content:   joinLines(lines, start, end),
			StartLine: start,
			EndLine:   end,
			Metadata:  map[string]string{"size_capped": "true"},
		})
		if end == len(lines) {
			break
		}
		start = end - overlap + 1
	}
	if len(chunks) == 0 {
		chunks = append(chunks, wholeFileModuleChunk(path, source, language))
	}
	return chunks
}

func splitLines(source []byte) []string {
	if len(source) == 0 {
		return []string{""}
	}
	return strings.Split(string(source), "\n")
}

func joinLines(lines []string, start, end int) string {
	if start < 1 {
		start = 1
	}
	if end > len(lines) {
		end = len(lines)
	}
	if start > end || start > len(lines) {
		return ""
	}
	return strings.Join(lines[start-1:end], "\n")
}

// sanitizeUTF8 replaces invalid UTF-8 byte sequences with the Unicode
// replacement character, reporting whether any replacement occurred.
func sanitizeUTF8(source []byte) ([]byte, bool) {
	if utf8.Valid(source) {
		return source, false
	}
	var b strings.Builder
	b.Grow(len(source))
	for i := 0; i < len(source); {
		r, size := utf8.DecodeRune(source[i:])
		if r == utf8.RuneError && size == 1 {
			b.WriteRune(utf8.RuneError)
			i++
			continue
		}
		b.WriteRune(r)
		i += size
	}
	return []byte(b.String()), true
}
