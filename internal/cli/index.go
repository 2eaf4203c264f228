package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/cortex-research/cortex/internal/config"
	"github.com/cortex-research/cortex/internal/indexer"
	"github.com/cortex-research/cortex/internal/providers"
	"github.com/cortex-research/cortex/internal/vectorstore"
	"github.com/spf13/cobra"
)

var quietFlag bool

// indexCmd represents the index command
var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Index the codebase for semantic search",
	Long: `Index processes your codebase (source code + documentation) and generates
semantically searchable chunks with vector embeddings.

The indexer:
  - Walks the tree for files matching the configured include/exclude globs
  - Chunks source by symbol/definition and docs by markdown section
  - Generates embeddings via the configured embedding provider
  - Stores chunks in the .cortex/vectors.db vector store

Examples:
  # Index the current directory
  cortex index

  # Index with progress bars disabled
  cortex index --quiet
`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&quietFlag, "quiet", "q", false, "Disable progress bars; print only a one-line summary")
}

func runIndex(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nInterrupted! Cancelling indexing...")
		cancel()
	}()

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}

	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cacheDir := filepath.Join(rootDir, ".cortex")
	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory: %w", err)
	}

	embedProvider, err := newEmbeddingProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}

	store, err := vectorstore.Open(
		filepath.Join(cacheDir, "vectors.db"),
		embedProvider,
		vectorstore.DefaultOptions(),
	)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer store.Close()

	opts := indexer.DefaultOptions(rootDir)
	opts.IncludeGlobs = append(append([]string{}, cfg.Paths.Code...), cfg.Paths.Docs...)
	opts.ExcludeGlobs = cfg.Paths.Ignore
	opts.Workers = cfg.Chunking.Workers
	opts.ChunkOptions.MinChunkBytes = cfg.Chunking.MinChunkBytes
	opts.ChunkOptions.SizeCapBytes = cfg.Chunking.SizeCapBytes
	opts.ChunkOptions.WindowLines = cfg.Chunking.WindowLines
	opts.ChunkOptions.WindowOverlapLines = cfg.Chunking.WindowOverlapLines
	opts.CacheDir = cacheDir
	opts.Progress = NewCLIProgressReporter(quietFlag)

	if !quietFlag {
		log.Println("Starting indexing...")
	}

	ix := indexer.New(rootDir, store, opts)
	status, err := ix.Index(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("indexing cancelled")
		}
		return fmt.Errorf("indexing failed: %w", err)
	}

	if quietFlag {
		fmt.Printf("Indexing complete: %d chunks\n", status.TotalChunks)
	}

	return nil
}

// newEmbeddingProvider resolves the configured embedding provider. Only the
// mock provider ships with this module: vendor-specific embedding HTTP
// clients are an external collaborator (spec.md §1).
func newEmbeddingProvider(cfg *config.Config) (providers.EmbeddingProvider, error) {
	switch cfg.Embedding.Provider {
	case "mock", "local", "openai":
		return providers.NewMockEmbeddingProvider(cfg.Embedding.Dimensions), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider %q", cfg.Embedding.Provider)
	}
}

// newLLMProvider resolves the configured LLM provider. Only the mock
// provider ships with this module: vendor-specific LLM HTTP clients are an
// external collaborator (spec.md §1).
func newLLMProvider(cfg *config.Config) (providers.LLMProvider, error) {
	switch cfg.LLM.Provider {
	case "mock", "openai", "anthropic", "ollama":
		return providers.NewMockLLMProvider(), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider %q", cfg.LLM.Provider)
	}
}
