package chunker

import (
	"path/filepath"
	"strings"

	"github.com/cortex-research/cortex/internal/chunk"
)

// DetectLanguage infers a chunk.Language from a file's extension, the same
// closed mapping the teacher's multiLanguageParser uses to route files to a
// parser (internal/indexer/parser.go's detectLanguage).
func DetectLanguage(filePath string) chunk.Language {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".go":
		return chunk.LanguageGo
	case ".ts", ".tsx":
		return chunk.LanguageTypeScript
	case ".js", ".jsx", ".mjs", ".cjs":
		return chunk.LanguageJavaScript
	case ".py":
		return chunk.LanguagePython
	case ".rs":
		return chunk.LanguageRust
	case ".c", ".h":
		return chunk.LanguageC
	case ".cpp", ".cc", ".hpp", ".hh", ".cxx":
		return chunk.LanguageCPP
	case ".java":
		return chunk.LanguageJava
	case ".php":
		return chunk.LanguagePHP
	case ".rb":
		return chunk.LanguageRuby
	case ".md", ".markdown":
		return chunk.LanguageMarkdown
	default:
		return chunk.LanguageUnknown
	}
}
