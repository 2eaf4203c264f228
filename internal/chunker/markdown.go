package chunker

import (
	"regexp"
	"strings"

	"github.com/cortex-research/cortex/internal/chunk"
)

// Markdown files have no MODULE/FUNCTION notion, so they route through a
// header/paragraph-aware chunker instead of a grammar, grounded on the
// teacher's documentation chunker (internal/indexer/chunker.go ChunkDocument):
// split by level-2 headers, then by paragraph if a section exceeds the
// target size, never splitting inside a fenced code block. The leading
// section (before the first header) becomes the file's MODULE chunk; every
// other section becomes an OTHER chunk.
var mdHeaderPattern = regexp.MustCompile(`^##\s+`)
var mdFencePattern = regexp.MustCompile("^```")

func chunkMarkdown(path string, source []byte, opts Options) ([]chunk.Chunk, error) {
	content := string(source)
	if strings.TrimSpace(content) == "" {
		return []chunk.Chunk{{
			ID:       chunk.MakeID(path, 1, 1, ""),
			FilePath: path,
			Language: chunk.LanguageMarkdown,
			Kind:     chunk.KindModule,
			Content:  "",
			Metadata: map[string]string{},
		}}, nil
	}

	lines := strings.Split(content, "\n")
	sections := splitMarkdownSections(lines)

	targetBytes := opts.SizeCapBytes / 64 // ~ a few KB of markdown per section
	if targetBytes < 800 {
		targetBytes = 800
	}

	var chunks []chunk.Chunk
	for idx, sec := range sections {
		kind := chunk.KindOther
		if idx == 0 {
			kind = chunk.KindModule
		}
		text := strings.Join(sec.lines, "\n")
		if len(text) <= targetBytes {
			chunks = append(chunks, chunk.Chunk{
				ID:        chunk.MakeID(path, sec.startLine, sec.startLine+len(sec.lines)-1, ""),
				FilePath:  path,
				Language:  chunk.LanguageMarkdown,
				Kind:      kind,
				Content:   strings.TrimSpace(text),
				StartLine: sec.startLine,
				EndLine:   sec.startLine + len(sec.lines) - 1,
				Metadata:  map[string]string{},
			})
			continue
		}
		chunks = append(chunks, splitMarkdownParagraphs(path, sec, targetBytes, kind)...)
	}
	return mergeSmallChunks(chunks, opts.MinChunkBytes), nil
}

type mdSection struct {
	startLine int
	lines     []string
}

func splitMarkdownSections(lines []string) []mdSection {
	var sections []mdSection
	current := mdSection{startLine: 1}
	for i, line := range lines {
		if mdHeaderPattern.MatchString(line) && i > 0 {
			if len(current.lines) > 0 {
				sections = append(sections, current)
			}
			current = mdSection{startLine: i + 1, lines: []string{line}}
		} else {
			current.lines = append(current.lines, line)
		}
	}
	if len(current.lines) > 0 {
		sections = append(sections, current)
	}
	return sections
}

type mdParagraph struct {
	text      string
	startLine int
	endLine   int
}

func splitMarkdownParagraphs(path string, sec mdSection, targetBytes int, kind chunk.Kind) []chunk.Chunk {
	paragraphs := extractMarkdownParagraphs(sec.lines, sec.startLine)

	var chunks []chunk.Chunk
	var current []mdParagraph
	size := 0
	first := true

	flush := func() {
		if len(current) == 0 {
			return
		}
		texts := make([]string, len(current))
		for i, p := range current {
			texts[i] = p.text
		}
		k := chunk.KindOther
		if first {
			k = kind
			first = false
		}
		chunks = append(chunks, chunk.Chunk{
			ID:        chunk.MakeID(path, current[0].startLine, current[len(current)-1].endLine, ""),
			FilePath:  path,
			Language:  chunk.LanguageMarkdown,
			Kind:      k,
			Content:   strings.Join(texts, "\n\n"),
			StartLine: current[0].startLine,
			EndLine:   current[len(current)-1].endLine,
			Metadata:  map[string]string{},
		})
		current = nil
		size = 0
	}

	for _, para := range paragraphs {
		if size > 0 && size+len(para.text) > targetBytes {
			flush()
		}
		current = append(current, para)
		size += len(para.text)
	}
	flush()

	if len(chunks) == 0 {
		chunks = append(chunks, chunk.Chunk{
			ID:        chunk.MakeID(path, sec.startLine, sec.startLine+len(sec.lines)-1, ""),
			FilePath:  path,
			Language:  chunk.LanguageMarkdown,
			Kind:      kind,
			Content:   strings.TrimSpace(strings.Join(sec.lines, "\n")),
			StartLine: sec.startLine,
			EndLine:   sec.startLine + len(sec.lines) - 1,
			Metadata:  map[string]string{},
		})
	}
	return chunks
}

func extractMarkdownParagraphs(lines []string, startLine int) []mdParagraph {
	var paragraphs []mdParagraph
	var current []string
	currentStart := startLine
	inFence := false

	flush := func(endLine int) {
		if len(current) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(current, "\n"))
		if text != "" {
			paragraphs = append(paragraphs, mdParagraph{text: text, startLine: currentStart, endLine: endLine})
		}
		current = nil
	}

	for i, line := range lines {
		lineNum := startLine + i
		if mdFencePattern.MatchString(line) {
			if !inFence {
				flush(lineNum - 1)
				inFence = true
				currentStart = lineNum
				current = append(current, line)
			} else {
				current = append(current, line)
				flush(lineNum)
				inFence = false
				currentStart = lineNum + 1
			}
			continue
		}
		if inFence {
			current = append(current, line)
			continue
		}
		if strings.TrimSpace(line) == "" {
			flush(lineNum - 1)
			currentStart = lineNum + 1
		} else {
			current = append(current, line)
		}
	}
	flush(startLine + len(lines) - 1)
	return paragraphs
}
