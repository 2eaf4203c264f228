package wiki

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlan_OneFilePagePerFile(t *testing.T) {
	pages := Plan([]string{"a.go", "sub/b.go"}, Options{})
	var filePages []PlannedPage
	for _, p := range pages {
		if p.Kind == PageKindFile {
			filePages = append(filePages, p)
		}
	}
	assert.Len(t, filePages, 2)
	assert.Equal(t, "a.md", filePages[0].Path)
	assert.Equal(t, "sub/b.md", filePages[1].Path)
}

func TestPlan_OneModulePagePerDirectory(t *testing.T) {
	pages := Plan([]string{"a.go", "sub/b.go", "sub/c.go"}, Options{})
	var modulePages []PlannedPage
	for _, p := range pages {
		if p.Kind == PageKindModule {
			modulePages = append(modulePages, p)
		}
	}
	assert.Len(t, modulePages, 2) // root ("." ) and "sub"

	var subPage *PlannedPage
	for i := range modulePages {
		if modulePages[i].Path == "sub/_module.md" {
			subPage = &modulePages[i]
		}
	}
	if assert.NotNil(t, subPage) {
		assert.Equal(t, []string{"sub/b.go", "sub/c.go"}, subPage.SourceFiles)
	}
}

func TestPlan_ExactlyOneArchitectureAndIndexPage(t *testing.T) {
	pages := Plan([]string{"a.go", "sub/b.go"}, Options{})
	arch, idx := 0, 0
	for _, p := range pages {
		if p.Kind == PageKindArchitecture {
			arch++
		}
		if p.Kind == PageKindIndex {
			idx++
		}
	}
	assert.Equal(t, 1, arch)
	assert.Equal(t, 1, idx)
}

func TestPlan_ArchitectureFileCount_Bounded(t *testing.T) {
	files := make([]string, 0, 20)
	for i := 0; i < 20; i++ {
		files = append(files, string(rune('a'+i))+".go")
	}
	pages := Plan(files, Options{ArchitectureFileCount: 5})
	for _, p := range pages {
		if p.Kind == PageKindArchitecture {
			assert.LessOrEqual(t, len(p.SourceFiles), 5)
		}
	}
}

func TestPlan_Deterministic_AcrossRepeatedCalls(t *testing.T) {
	files := []string{"z.go", "a.go", "m/x.go"}
	p1 := Plan(files, Options{})
	p2 := Plan(files, Options{})
	assert.Equal(t, p1, p2)
}
