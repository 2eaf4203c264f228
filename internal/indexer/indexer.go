package indexer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/chunker"
	"github.com/cortex-research/cortex/internal/vectorstore"
	"golang.org/x/sync/errgroup"
)

// Options configures one index run (§4.C, §6's configuration surface).
type Options struct {
	IncludeGlobs []string
	ExcludeGlobs []string
	Workers      int // bounded by min(Workers, runtime.NumCPU()), §5
	ChunkOptions chunker.Options
	CacheDir     string // where index_status.json is persisted, §6
	Progress     ProgressReporter
}

// DefaultOptions mirrors the teacher's config.Default() glob lists
// (internal/config/config.go) plus the chunker's own defaults.
func DefaultOptions(repoRoot string) Options {
	return Options{
		IncludeGlobs: []string{
			"**/*.go", "**/*.ts", "**/*.tsx", "**/*.js", "**/*.jsx",
			"**/*.py", "**/*.rs", "**/*.c", "**/*.h", "**/*.cpp", "**/*.cc",
			"**/*.hpp", "**/*.php", "**/*.rb", "**/*.java",
			"**/*.md", "**/*.markdown",
		},
		ExcludeGlobs: []string{
			"node_modules/**", "vendor/**", ".git/**", "dist/**", "build/**",
			"target/**", "__pycache__/**",
		},
		Workers:      4,
		ChunkOptions: chunker.DefaultOptions(),
		CacheDir:     filepath.Join(repoRoot, ".cortex"),
		Progress:     NoOpProgressReporter{},
	}
}

// Indexer implements §4.C's contract: index(repo_root, include_globs,
// exclude_globs) → IndexStatus, against a vectorstore.Store.
type Indexer struct {
	repoRoot string
	store    *vectorstore.Store
	opts     Options
}

// New builds an Indexer for repoRoot, writing chunks to store.
func New(repoRoot string, store *vectorstore.Store, opts Options) *Indexer {
	if opts.Progress == nil {
		opts.Progress = NoOpProgressReporter{}
	}
	if opts.Workers <= 0 {
		opts.Workers = 1
	}
	return &Indexer{repoRoot: repoRoot, store: store, opts: opts}
}

// Index runs the full discover → hash-compare → chunk → write algorithm
// (§4.C) and persists the resulting IndexStatus.
func (ix *Indexer) Index(ctx context.Context) (*IndexStatus, error) {
	discovery, err := NewFileDiscovery(ix.repoRoot, ix.opts.IncludeGlobs, ix.opts.ExcludeGlobs)
	if err != nil {
		return nil, fmt.Errorf("compile discovery globs: %w", err)
	}
	files, err := discovery.DiscoverFiles()
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}
	ix.opts.Progress.OnDiscoveryComplete(len(files))

	prior, err := loadIndexStatus(ix.opts.CacheDir)
	if err != nil {
		return nil, fmt.Errorf("load prior index status: %w", err)
	}

	relFiles := make([]string, len(files))
	onDisk := make(map[string]bool, len(files))
	for i, f := range files {
		rel, err := filepath.Rel(ix.repoRoot, f)
		if err != nil {
			return nil, err
		}
		rel = filepath.ToSlash(rel)
		relFiles[i] = rel
		onDisk[rel] = true
	}

	workers := ix.opts.Workers
	if n := runtime.NumCPU(); n < workers {
		workers = n
	}

	status := newIndexStatus()
	status.WorkerCount = workers

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, rel := range relFiles {
		absPath := files[i]
		rel := rel
		g.Go(func() error {
			return ix.processFile(gctx, absPath, rel, prior, status, &mu)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Deleted files: present in the prior status but no longer on disk.
	for path := range prior.FileHashes {
		if onDisk[path] {
			continue
		}
		if _, err := ix.store.DeleteChunksByFile(ctx, path); err != nil {
			return nil, fmt.Errorf("delete chunks for removed file %s: %w", path, err)
		}
		status.FilesDeleted++
	}

	status.TotalFiles = len(status.FileHashes)
	stats, err := ix.store.GetStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("read store stats: %w", err)
	}
	status.TotalChunks = stats.TotalChunks
	for lang, count := range stats.Languages {
		status.LanguageCounts[lang] = count
	}

	if err := saveIndexStatus(ix.opts.CacheDir, status); err != nil {
		return nil, fmt.Errorf("persist index status: %w", err)
	}
	ix.opts.Progress.OnComplete(status)
	return status, nil
}

// processFile implements steps 2-4 of §4.C's algorithm for one file: detect
// language, hash, skip if unchanged, else chunk and write
// delete-then-append. Multiple goroutines call processFile concurrently for
// different files; §5 guarantees a single writer per file path because work
// here is keyed by file path, so the store's per-file write is never raced.
func (ix *Indexer) processFile(ctx context.Context, absPath, rel string, prior *IndexStatus, status *IndexStatus, mu *sync.Mutex) error {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", rel, err)
	}
	hash := contentHash(data)

	priorHash, existed := prior.FileHashes[rel]

	if existed && priorHash == hash {
		mu.Lock()
		status.FileHashes[rel] = hash
		status.FilesUnchanged++
		mu.Unlock()
		ix.opts.Progress.OnFileProcessed(rel)
		return nil
	}

	language := detectLanguage(absPath)
	chunks, err := chunker.ChunkFile(rel, data, language, ix.opts.ChunkOptions)
	if err != nil {
		return fmt.Errorf("chunk %s: %w", rel, err)
	}
	for i := range chunks {
		if chunks[i].ID == "" {
			chunks[i].ID = chunk.MakeID(chunks[i].FilePath, chunks[i].StartLine, chunks[i].EndLine, chunks[i].Name)
		}
	}

	if _, err := ix.store.DeleteChunksByFile(ctx, rel); err != nil {
		return fmt.Errorf("delete stale chunks for %s: %w", rel, err)
	}
	if len(chunks) > 0 {
		if err := ix.store.AddChunks(ctx, chunks); err != nil {
			return fmt.Errorf("write chunks for %s: %w", rel, err)
		}
	}

	mu.Lock()
	status.FileHashes[rel] = hash
	if existed {
		status.FilesModified++
	} else {
		status.FilesAdded++
	}
	mu.Unlock()

	ix.opts.Progress.OnFileProcessed(rel)
	return nil
}
