package indexer

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// FileDiscovery enumerates files under a root directory matching include
// globs and not matching exclude globs. Grounded on the teacher's
// internal/indexer/discovery.go FileDiscovery; generalised from the
// teacher's fixed code/docs pattern split into one include set, since §4.C's
// contract takes a single include_globs/exclude_globs pair and leaves
// language classification to content, not to which list a path matched.
type FileDiscovery struct {
	rootDir  string
	includes []glob.Glob
	excludes []glob.Glob
}

// NewFileDiscovery compiles the include/exclude glob patterns. Patterns are
// matched against the file's slash-separated path relative to rootDir, with
// '/' as the glob separator exactly as the teacher's discovery.go does.
func NewFileDiscovery(rootDir string, includeGlobs, excludeGlobs []string) (*FileDiscovery, error) {
	fd := &FileDiscovery{rootDir: rootDir}

	for _, pattern := range includeGlobs {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		fd.includes = append(fd.includes, g)
	}
	for _, pattern := range excludeGlobs {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, err
		}
		fd.excludes = append(fd.excludes, g)
	}
	return fd, nil
}

// DiscoverFiles walks rootDir and returns every regular file whose
// repo-relative, slash-separated path matches at least one include pattern
// and no exclude pattern. The cache directory is always excluded.
func (fd *FileDiscovery) DiscoverFiles() ([]string, error) {
	files := []string{}

	err := filepath.Walk(fd.rootDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		relPath, relErr := filepath.Rel(fd.rootDir, path)
		if relErr != nil {
			return relErr
		}
		relPath = filepath.ToSlash(relPath)

		if info.IsDir() {
			if relPath != "." && fd.shouldIgnore(relPath) {
				return filepath.SkipDir
			}
			return nil
		}

		if fd.shouldIgnore(relPath) {
			return nil
		}
		if fd.matchesAnyPattern(relPath, fd.includes) {
			files = append(files, path)
		}
		return nil
	})

	return files, err
}

// shouldIgnore checks if a path matches any exclude pattern.
func (fd *FileDiscovery) shouldIgnore(relPath string) bool {
	if strings.HasPrefix(relPath, ".cortex/") || relPath == ".cortex" {
		return true
	}
	if fd.matchesAnyPattern(relPath, fd.excludes) {
		return true
	}
	// A directory itself should be skipped if it matches a "dir/**" style
	// exclude, the same directory-level check the teacher's shouldIgnore
	// performs.
	return fd.matchesAnyPattern(relPath+"/**", fd.excludes)
}

// matchesAnyPattern checks if a path matches any of the given patterns.
func (fd *FileDiscovery) matchesAnyPattern(path string, patterns []glob.Glob) bool {
	for _, pattern := range patterns {
		if pattern.Match(path) {
			return true
		}
	}
	return false
}
