package sourceref

import (
	"fmt"
	"sort"

	"github.com/cortex-research/cortex/internal/crosslink"
	"github.com/dominikbraun/graph"
)

// ComputeSeeAlso is a pure graph computation (§4.H "See-also"): pages
// sharing at least minShared source files are mutually linked, ranked by
// shared-dependency count (ties broken by target path) and capped to the
// topN highest-scoring neighbors per page. Index pages never participate,
// since they are never modified by either weaver.
func ComputeSeeAlso(pages []Page, minShared, topN int) map[string][]SeeAlsoEntry {
	if minShared <= 0 {
		minShared = 1
	}
	if topN <= 0 {
		topN = 5
	}

	g := graph.New(func(p string) string { return p }, graph.Undirected(), graph.Weighted())

	var eligible []Page
	for _, p := range pages {
		if p.IsIndex {
			continue
		}
		eligible = append(eligible, p)
		_ = g.AddVertex(p.Path)
	}

	for i := 0; i < len(eligible); i++ {
		for j := i + 1; j < len(eligible); j++ {
			shared := sharedFileCount(eligible[i].SourceFiles, eligible[j].SourceFiles)
			if shared < minShared {
				continue
			}
			_ = g.AddEdge(eligible[i].Path, eligible[j].Path, graph.EdgeWeight(shared))
		}
	}

	adjacency, err := g.AdjacencyMap()
	if err != nil {
		return nil
	}

	result := make(map[string][]SeeAlsoEntry, len(adjacency))
	for path, neighbors := range adjacency {
		entries := make([]SeeAlsoEntry, 0, len(neighbors))
		for target, edge := range neighbors {
			entries = append(entries, SeeAlsoEntry{TargetPath: target, SharedCount: edge.Properties.Weight})
		}
		sort.Slice(entries, func(i, j int) bool {
			if entries[i].SharedCount != entries[j].SharedCount {
				return entries[i].SharedCount > entries[j].SharedCount
			}
			return entries[i].TargetPath < entries[j].TargetPath
		})
		if len(entries) > topN {
			entries = entries[:topN]
		}
		if len(entries) > 0 {
			result[path] = entries
		}
	}
	return result
}

func sharedFileCount(a, b []string) int {
	set := make(map[string]struct{}, len(a))
	for _, f := range a {
		set[f] = struct{}{}
	}
	count := 0
	for _, f := range b {
		if _, ok := set[f]; ok {
			count++
		}
	}
	return count
}

// InjectSeeAlso appends a "See Also" section listing entries, each as a
// relative link from ownPath with its shared-dependency count. No-op when
// entries is empty.
func InjectSeeAlso(content, ownPath string, entries []SeeAlsoEntry) string {
	if len(entries) == 0 {
		return content
	}

	out := content
	if trimmed := trimTrailingNewlines(out); trimmed != "" {
		out = trimmed + "\n\n"
	}
	out += seeAlsoHeading + "\n\n"
	for _, e := range entries {
		rel := crosslink.RelativeWikiPath(ownPath, e.TargetPath)
		out += formatSeeAlsoEntry(rel, e)
	}
	return out
}

func formatSeeAlsoEntry(rel string, e SeeAlsoEntry) string {
	noun := "dependency"
	if e.SharedCount != 1 {
		noun = "dependencies"
	}
	return fmt.Sprintf("- [%s](%s) (%d shared %s)\n", e.TargetPath, rel, e.SharedCount, noun)
}

func trimTrailingNewlines(s string) string {
	i := len(s)
	for i > 0 && s[i-1] == '\n' {
		i--
	}
	return s[:i]
}
