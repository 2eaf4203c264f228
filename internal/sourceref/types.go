// Package sourceref implements spec.md §4.H: two post-processing weavers
// that run after a wiki page's markdown content exists. The source-ref
// weaver appends a "Relevant Source Files" section listing each source
// file a page was built from, linking to that file's own page where one
// exists. The see-also weaver is a pure graph computation over pages'
// source-file sets: pages sharing at least K source files are mutually
// linked under a "See Also" section, ranked by shared-dependency count and
// capped to a configurable top-N.
//
// Grounded on github.com/dominikbraun/graph (a teacher dependency, used in
// internal/graph/searcher.go for the teacher's own code-dependency graph):
// the same library models pages as vertices and shared source files as
// edge weights here, generalized from "function calls function" to "page
// shares N source files with page."
package sourceref

import "github.com/cortex-research/cortex/internal/chunk"

// Page is the subset of a generated wiki page's provenance the weavers
// need: its own path, whether it is an index page (never modified, per
// §4.H), and the source files (with optional line ranges) it was built
// from.
type Page struct {
	Path        string
	IsIndex     bool
	SourceFiles []string
	LineInfo    map[string]chunk.LineRange
}

// SeeAlsoEntry is one mutual cross-reference emitted by ComputeSeeAlso.
type SeeAlsoEntry struct {
	TargetPath  string
	SharedCount int
}
