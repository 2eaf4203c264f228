package wiki

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/indexer"
	"github.com/cortex-research/cortex/internal/providers"
	"github.com/cortex-research/cortex/internal/vectorstore"
)

// ChunkSource is the subset of the vector store contract the generator
// needs to collect a page's content (§4.F "Regeneration"). *vectorstore.Store
// satisfies this directly.
type ChunkSource interface {
	GetChunksByFile(ctx context.Context, path string) ([]chunk.Chunk, error)
	Search(ctx context.Context, queryText string, limit int, filters vectorstore.SearchFilters) ([]chunk.SearchResult, error)
}

// Generator runs §4.F's plan → reuse-or-regenerate → status pipeline.
type Generator struct {
	store    ChunkSource
	llm      providers.LLMProvider
	outRoot  string
	cacheDir string
}

// New builds a Generator writing markdown under outRoot and persisting its
// status document under cacheDir.
func New(store ChunkSource, llm providers.LLMProvider, outRoot, cacheDir string) *Generator {
	return &Generator{store: store, llm: llm, outRoot: outRoot, cacheDir: cacheDir}
}

// Result is the generator's output: the pages written this run (reused and
// regenerated alike), any per-page failures encountered, and the status
// document persisted for the next run.
type Result struct {
	Pages    []chunk.WikiPage
	Failures []PageFailure
	Status   *chunk.WikiGenerationStatus
}

// Generate runs one incremental wiki generation pass over the given
// IndexStatus (§4.F).
func (g *Generator) Generate(ctx context.Context, status *indexer.IndexStatus, opts Options) (*Result, error) {
	opts = opts.normalize()

	files := make([]string, 0, len(status.FileHashes))
	for f := range status.FileHashes {
		files = append(files, f)
	}
	sort.Strings(files)

	planned := Plan(files, opts)
	prior := loadStatus(g.cacheDir)

	result := &Result{Status: &chunk.WikiGenerationStatus{
		RepoPath:        g.outRoot,
		TotalPages:      len(planned),
		IndexStatusHash: indexStatusHash(status),
		Pages:           map[string]chunk.WikiPageStatus{},
	}}

	for _, page := range planned {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		if !needsRegeneration(page, status.FileHashes, prior) {
			reused, ok := g.reusePage(page, prior)
			if ok {
				result.Pages = append(result.Pages, reused.page)
				result.Status.Pages[page.Path] = reused.status
				continue
			}
			// Prior status claimed this page but its file is missing or
			// unreadable; fall through and regenerate instead of failing
			// the whole run (§4.F's failure-containment policy extends
			// naturally to a corrupted reuse candidate).
		}

		wikiPage, pageStatus, err := g.regeneratePage(ctx, page, status.FileHashes, opts)
		if err != nil {
			result.Failures = append(result.Failures, PageFailure{Path: page.Path, Err: err})
			continue
		}
		result.Pages = append(result.Pages, wikiPage)
		result.Status.Pages[pageStatus.Path] = pageStatus
	}

	if err := saveStatus(g.cacheDir, result.Status); err != nil {
		return nil, fmt.Errorf("persist wiki status: %w", err)
	}
	return result, nil
}

type reusedPage struct {
	page   chunk.WikiPage
	status chunk.WikiPageStatus
}

// reusePage loads a page's prior content from disk, preserving its
// generated_at (§4.F "otherwise the previous page content is loaded from
// disk, the prior generated_at is preserved, and no LLM call is issued").
func (g *Generator) reusePage(page PlannedPage, prior *chunk.WikiGenerationStatus) (reusedPage, bool) {
	prevStatus, ok := prior.Pages[page.Path]
	if !ok {
		return reusedPage{}, false
	}
	data, err := os.ReadFile(filepath.Join(g.outRoot, page.Path))
	if err != nil {
		return reusedPage{}, false
	}
	return reusedPage{
		page: chunk.WikiPage{
			Path: page.Path, Title: page.Title,
			Content: string(data), GeneratedAt: prevStatus.GeneratedAt,
		},
		status: prevStatus,
	}, true
}

const regenerationSystemPrompt = `You write one page of technical documentation for a source code repository, in markdown. Use only the provided source excerpts. Do not invent APIs, files, or behavior not shown.`

// regeneratePage collects a page's chunks, composes a prompt, and calls the
// LLM provider (§4.F "Regeneration"). A failure at any step here is
// returned to the caller, who contains it per page rather than aborting the
// run.
func (g *Generator) regeneratePage(ctx context.Context, page PlannedPage, fileHashes map[string]string, opts Options) (chunk.WikiPage, chunk.WikiPageStatus, error) {
	var ownChunks []chunk.Chunk
	seen := map[string]bool{}
	for _, f := range page.SourceFiles {
		chunks, err := g.store.GetChunksByFile(ctx, f)
		if err != nil {
			return chunk.WikiPage{}, chunk.WikiPageStatus{}, fmt.Errorf("collect chunks for %s: %w", f, err)
		}
		for _, c := range chunks {
			seen[c.ID] = true
		}
		ownChunks = append(ownChunks, chunks...)
	}

	crossFile, err := g.store.Search(ctx, crossFileQuery(page), opts.CrossFileTopK, vectorstore.SearchFilters{})
	if err != nil {
		return chunk.WikiPage{}, chunk.WikiPageStatus{}, fmt.Errorf("cross-file search for %s: %w", page.Path, err)
	}
	for _, res := range crossFile {
		if seen[res.Chunk.ID] {
			continue
		}
		seen[res.Chunk.ID] = true
		ownChunks = append(ownChunks, res.Chunk)
	}

	prompt := composePrompt(page, ownChunks)
	content, err := g.llm.Generate(ctx, providers.GenerateRequest{
		System: regenerationSystemPrompt,
		Prompt: prompt,
	})
	if err != nil {
		return chunk.WikiPage{}, chunk.WikiPageStatus{}, fmt.Errorf("generate %s: %w", page.Path, err)
	}

	if err := writePage(g.outRoot, page.Path, content); err != nil {
		return chunk.WikiPage{}, chunk.WikiPageStatus{}, fmt.Errorf("write %s: %w", page.Path, err)
	}

	generatedAt := time.Now().Unix()
	wikiPage := chunk.WikiPage{Path: page.Path, Title: page.Title, Content: content, GeneratedAt: generatedAt}
	pageStatus := chunk.WikiPageStatus{
		Path:         page.Path,
		SourceFiles:  page.SourceFiles,
		SourceHashes: sortedSourceHashes(page.SourceFiles, fileHashes),
		ContentHash:  contentHash(content),
		GeneratedAt:  generatedAt,
	}
	return wikiPage, pageStatus, nil
}

func crossFileQuery(page PlannedPage) string {
	return fmt.Sprintf("%s overview and related code", page.Title)
}

func composePrompt(page PlannedPage, chunks []chunk.Chunk) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Page: %s (%s)\nSource files: %s\n\n", page.Title, page.Kind, strings.Join(page.SourceFiles, ", "))
	if len(chunks) == 0 {
		b.WriteString("No source chunks were found for this page.\n")
		return b.String()
	}
	for _, c := range chunks {
		fmt.Fprintf(&b, "### %s:%d-%d (%s)\n```\n%s\n```\n\n", c.FilePath, c.StartLine, c.EndLine, c.Kind, c.Content)
	}
	return b.String()
}

func writePage(outRoot, relPath, content string) error {
	full := filepath.Join(outRoot, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	return os.WriteFile(full, []byte(content), 0o644)
}

func contentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// indexStatusHash computes the hex digest over a deterministic
// serialisation of the IndexStatus (§4.F "Status": "the overall
// index_status_hash is the hex digest over a deterministic serialisation
// of the IndexStatus"). encoding/json already sorts map string keys on
// marshal, so IndexStatus's own field order plus that guarantee is
// sufficient determinism without re-deriving indexer's own sorted-copy
// helper.
func indexStatusHash(status *indexer.IndexStatus) string {
	data, err := json.Marshal(status)
	if err != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
