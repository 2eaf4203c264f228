package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cortex-research/cortex/internal/config"
	"github.com/cortex-research/cortex/internal/research"
	"github.com/cortex-research/cortex/internal/vectorstore"
	"github.com/spf13/cobra"
)

// researchCmd asks a natural-language question against the indexed
// repository and prints the synthesized answer plus its reasoning trace.
var researchCmd = &cobra.Command{
	Use:   "research [question]",
	Short: "Ask a question about the indexed codebase",
	Long: `Research decomposes a question into sub-questions, retrieves matching
chunks from the vector store, identifies gaps, refines retrieval, and
synthesizes a grounded answer via the configured LLM provider.

Examples:
  cortex research "how does the indexer detect changed files?"
`,
	Args: cobra.ExactArgs(1),
	RunE: runResearch,
}

var showTraceFlag bool

func init() {
	rootCmd.AddCommand(researchCmd)
	researchCmd.Flags().BoolVar(&showTraceFlag, "trace", false, "Print the step-by-step reasoning trace")
}

func runResearch(cmd *cobra.Command, args []string) error {
	question := args[0]

	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	dbPath := filepath.Join(rootDir, ".cortex", "vectors.db")
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		return fmt.Errorf("no index found at %s, run `cortex index` first", dbPath)
	}

	embedProvider, err := newEmbeddingProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create embedding provider: %w", err)
	}
	store, err := vectorstore.Open(dbPath, embedProvider, vectorstore.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer store.Close()

	llmProvider, err := newLLMProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create llm provider: %w", err)
	}

	pipeline := research.New(store, llmProvider)
	result, err := pipeline.Research(context.Background(), question, research.Options{
		MaxSubQuestions:         cfg.Research.MaxSubQuestions,
		MaxChunksPerSubQuestion: cfg.Research.MaxChunksPerSubQuestion,
		MaxFollowUps:            cfg.Research.MaxFollowUps,
		MaxContextChunks:        cfg.Research.MaxContextChunks,
		LLMCallCap:              cfg.Research.LLMCallCap,
	})
	if err != nil {
		return fmt.Errorf("research failed: %w", err)
	}

	fmt.Println(result.Answer)

	if showTraceFlag {
		fmt.Println("\n--- reasoning trace ---")
		for _, step := range result.ReasoningTrace {
			fmt.Printf("%d. [%s] %s (%dms)\n", step.StepNumber, step.Step, step.Summary, step.DurationMS)
		}
		fmt.Printf("\n%d chunks retrieved, %d LLM calls\n", result.TotalChunksRetrieved, result.LLMCalls)
	}

	return nil
}
