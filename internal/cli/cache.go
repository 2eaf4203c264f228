package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cortex-research/cortex/internal/vectorstore"
	"github.com/spf13/cobra"
)

// cacheCmd represents the cache command group
var cacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Inspect or clear the local index cache",
	Long: `Manage the .cortex cache directory that holds the vector store, the
index status document, and the wiki generation status document.

Available commands:
  info  - Show cache location and chunk statistics
  clear - Remove the cache directory entirely`,
}

var cacheInfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show cache location and chunk statistics",
	RunE:  runCacheInfo,
}

var cacheClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the .cortex cache directory, forcing a full reindex next run",
	RunE:  runCacheClear,
}

func init() {
	rootCmd.AddCommand(cacheCmd)
	cacheCmd.AddCommand(cacheInfoCmd)
	cacheCmd.AddCommand(cacheClearCmd)
}

func runCacheInfo(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	cacheDir := filepath.Join(rootDir, ".cortex")
	dbPath := filepath.Join(cacheDir, "vectors.db")

	fmt.Printf("Cache Location: %s\n", cacheDir)

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		fmt.Println("Vector store: not yet created (run `cortex index` first)")
		return nil
	}

	store, err := vectorstore.Open(dbPath, nil, vectorstore.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer store.Close()

	stats, err := store.GetStats(context.Background())
	if err != nil {
		return fmt.Errorf("failed to read store stats: %w", err)
	}

	fmt.Printf("Total Chunks: %d\n", stats.TotalChunks)

	langs := make([]string, 0, len(stats.Languages))
	for lang := range stats.Languages {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	for _, lang := range langs {
		fmt.Printf("  %-12s %d\n", lang, stats.Languages[lang])
	}

	return nil
}

func runCacheClear(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}
	cacheDir := filepath.Join(rootDir, ".cortex")

	if _, err := os.Stat(cacheDir); os.IsNotExist(err) {
		fmt.Println("No cache directory found")
		return nil
	}

	if err := os.RemoveAll(cacheDir); err != nil {
		return fmt.Errorf("failed to remove cache directory: %w", err)
	}

	fmt.Printf("Removed %s\n", cacheDir)
	return nil
}
