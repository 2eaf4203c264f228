package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/config"
	"github.com/cortex-research/cortex/internal/crosslink"
	"github.com/cortex-research/cortex/internal/indexer"
	"github.com/cortex-research/cortex/internal/searchindex"
	"github.com/cortex-research/cortex/internal/sourceref"
	"github.com/cortex-research/cortex/internal/vectorstore"
	"github.com/cortex-research/cortex/internal/wiki"
	"github.com/spf13/cobra"
)

// wikiCmd generates the cross-linked documentation wiki from the most
// recent index (§4.F-§4.I: planning, regeneration, cross-linking,
// source-ref/see-also weaving, and the search index).
var wikiCmd = &cobra.Command{
	Use:   "wiki",
	Short: "Generate a cross-linked wiki from the indexed codebase",
	Long: `Wiki plans a page per source file plus module and architecture overview
pages, regenerates only the pages whose sources changed since the last
run, weaves entity cross-links and source-file/see-also references into
the generated markdown, and rebuilds the search index.

Requires a prior 'cortex index' run.`,
	RunE: runWiki,
}

func init() {
	rootCmd.AddCommand(wikiCmd)
}

func runWiki(cmd *cobra.Command, args []string) error {
	rootDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get working directory: %w", err)
	}
	cfg, err := config.LoadConfigFromDir(rootDir)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	cacheDir := filepath.Join(rootDir, ".cortex")
	status, err := indexer.LoadIndexStatus(cacheDir)
	if err != nil {
		return fmt.Errorf("failed to load index status: %w", err)
	}
	if status.TotalFiles == 0 {
		return fmt.Errorf("no index found, run `cortex index` first")
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

	llmProvider, err := newLLMProvider(cfg)
	if err != nil {
		return fmt.Errorf("failed to create llm provider: %w", err)
	}

	outRoot := filepath.Join(rootDir, "wiki")
	if err := os.MkdirAll(outRoot, 0o755); err != nil {
		return fmt.Errorf("failed to create wiki output directory: %w", err)
	}

	generator := wiki.New(store, llmProvider, outRoot, cacheDir)
	result, err := generator.Generate(context.Background(), status, wiki.Options{
		ArchitectureFileCount: cfg.Wiki.ArchitectureFileCount,
		CrossFileTopK:         cfg.Wiki.CrossFileTopK,
	})
	if err != nil {
		return fmt.Errorf("wiki generation failed: %w", err)
	}

	for _, f := range result.Failures {
		fmt.Printf("warning: failed to generate %s: %v\n", f.Path, f.Err)
	}

	entities, err := collectEntities(context.Background(), store, status)
	if err != nil {
		return fmt.Errorf("failed to collect entities: %w", err)
	}

	sourceRefPages := buildSourceRefPages(status, result.Pages)
	seeAlso := sourceref.ComputeSeeAlso(sourceRefPages, cfg.Wiki.SeeAlsoMinShared, cfg.Wiki.SeeAlsoTopN)
	existingPaths := make(map[string]bool, len(result.Pages))
	for _, p := range result.Pages {
		existingPaths[p.Path] = true
	}
	refsByPath := make(map[string]sourceref.Page, len(sourceRefPages))
	for _, p := range sourceRefPages {
		refsByPath[p.Path] = p
	}

	for i, page := range result.Pages {
		content := crosslink.Weave(page.Content, page.Path, entities)
		if refPage, ok := refsByPath[page.Path]; ok {
			content = sourceref.InjectSourceRefs(content, refPage, existingPaths)
		}
		content = sourceref.InjectSeeAlso(content, page.Path, seeAlso[page.Path])
		result.Pages[i].Content = content

		if err := os.WriteFile(filepath.Join(outRoot, page.Path), []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", page.Path, err)
		}
	}

	records := searchindex.Build(result.Pages, searchindex.DefaultOptions())
	if err := searchindex.Save(outRoot, records); err != nil {
		return fmt.Errorf("failed to save search index: %w", err)
	}

	fmt.Printf("✓ Wiki generated: %d pages (%d failed) under %s\n", len(result.Pages), len(result.Failures), outRoot)
	return nil
}

// collectEntities builds the entity set crosslink.Weave links against, one
// Entity per named chunk across every indexed file (§4.G).
func collectEntities(ctx context.Context, store *vectorstore.Store, status *indexer.IndexStatus) ([]chunk.Entity, error) {
	files := make([]string, 0, len(status.FileHashes))
	for f := range status.FileHashes {
		files = append(files, f)
	}
	sort.Strings(files)

	var entities []chunk.Entity
	for _, f := range files {
		chunks, err := store.GetChunksByFile(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("read chunks for %s: %w", f, err)
		}
		for _, c := range chunks {
			if c.Name == "" {
				continue
			}
			entities = append(entities, chunk.Entity{
				Name:         c.Name,
				Kind:         c.Kind,
				WikiPath:     wiki.FilePagePath(f),
				DefiningFile: f,
			})
		}
	}
	return entities, nil
}

// buildSourceRefPages derives sourceref.Page entries from the planned page
// set so the see-also weaver can rank pages by shared source files.
func buildSourceRefPages(status *indexer.IndexStatus, pages []chunk.WikiPage) []sourceref.Page {
	files := make([]string, 0, len(status.FileHashes))
	for f := range status.FileHashes {
		files = append(files, f)
	}
	sort.Strings(files)

	planned := wiki.Plan(files, wiki.DefaultOptions())
	byPath := make(map[string]wiki.PlannedPage, len(planned))
	for _, p := range planned {
		byPath[p.Path] = p
	}

	out := make([]sourceref.Page, 0, len(pages))
	for _, page := range pages {
		p, ok := byPath[page.Path]
		if !ok {
			continue
		}
		out = append(out, sourceref.Page{
			Path:        page.Path,
			IsIndex:     p.Kind == wiki.PageKindIndex,
			SourceFiles: p.SourceFiles,
		})
	}
	return out
}
