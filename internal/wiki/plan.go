package wiki

import (
	"path/filepath"
	"sort"
	"strings"
)

const (
	moduleFileName       = "_module.md"
	architectureFileName = "_architecture.md"
	indexFileName        = "index.md"
)

// Plan derives a page plan from a repository's indexed file set (§4.F
// "Planning"): one file page per source file, one module page per
// directory containing source files, one architecture overview page, and
// one index page.
func Plan(files []string, opts Options) []PlannedPage {
	opts = opts.normalize()
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)

	pages := make([]PlannedPage, 0, len(sorted)+2)
	dirFiles := map[string][]string{}

	for _, f := range sorted {
		pages = append(pages, PlannedPage{
			Path:        filePagePath(f),
			Title:       filepath.Base(f),
			Kind:        PageKindFile,
			SourceFiles: []string{f},
		})
		dir := filepath.Dir(f)
		dirFiles[dir] = append(dirFiles[dir], f)
	}

	dirs := make([]string, 0, len(dirFiles))
	for d := range dirFiles {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)

	for _, d := range dirs {
		srcs := dirFiles[d]
		sort.Strings(srcs)
		pages = append(pages, PlannedPage{
			Path:        modulePagePath(d),
			Title:       moduleTitle(d),
			Kind:        PageKindModule,
			SourceFiles: srcs,
		})
	}

	pages = append(pages, PlannedPage{
		Path:        architectureFileName,
		Title:       "Architecture Overview",
		Kind:        PageKindArchitecture,
		SourceFiles: curateArchitectureFiles(sorted, opts.ArchitectureFileCount),
	})

	pages = append(pages, PlannedPage{
		Path:        indexFileName,
		Title:       "Index",
		Kind:        PageKindIndex,
		SourceFiles: sorted,
	})

	return pages
}

func filePagePath(sourcePath string) string {
	return FilePagePath(sourcePath)
}

// FilePagePath computes the wiki-relative page path for one source file,
// exported so package sourceref can resolve a source file back to its file
// page without re-deriving the convention.
func FilePagePath(sourcePath string) string {
	ext := filepath.Ext(sourcePath)
	return strings.TrimSuffix(sourcePath, ext) + ".md"
}

func modulePagePath(dir string) string {
	if dir == "." {
		return moduleFileName
	}
	return filepath.ToSlash(filepath.Join(dir, moduleFileName))
}

func moduleTitle(dir string) string {
	if dir == "." {
		return "Root"
	}
	return dir
}

// curateArchitectureFiles picks a bounded, deterministic subset of files to
// summarise on the architecture page. Lacking any usage-frequency signal in
// this package's inputs, the heuristic favours conventional entry points
// (main.go, files directly under cmd/) first, then falls back to the
// shortest paths (a proxy for "closer to the repository root, more likely
// structural"), which keeps the selection stable across runs over an
// unchanged file set -- required for testable property 4 (wiki reuse
// determinism).
func curateArchitectureFiles(sortedFiles []string, limit int) []string {
	entryPoints := make([]string, 0)
	rest := make([]string, 0, len(sortedFiles))
	for _, f := range sortedFiles {
		base := filepath.Base(f)
		if base == "main.go" || strings.HasPrefix(f, "cmd/") {
			entryPoints = append(entryPoints, f)
		} else {
			rest = append(rest, f)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		if len(rest[i]) != len(rest[j]) {
			return len(rest[i]) < len(rest[j])
		}
		return rest[i] < rest[j]
	})

	out := append([]string(nil), entryPoints...)
	for _, f := range rest {
		if len(out) >= limit {
			break
		}
		out = append(out, f)
	}
	if len(out) > limit {
		out = out[:limit]
	}
	sort.Strings(out)
	return out
}
