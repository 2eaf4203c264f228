package indexer

import (
	"bufio"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"strings"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/chunker"
)

// contentHash hashes a file's bytes with SHA-256, the same algorithm the
// teacher's internal/storage file-metadata layer already uses to detect
// content changes (crypto/sha256 is a justified stdlib use: no pack repo
// wires a third-party hashing library for this).
func contentHash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// shebangLanguage maps a script's #! interpreter line to a Language, for
// extensionless files extension-based detection can't classify.
var shebangLanguage = map[string]chunk.Language{
	"python":  chunk.LanguagePython,
	"python3": chunk.LanguagePython,
	"ruby":    chunk.LanguageRuby,
	"node":    chunk.LanguageJavaScript,
}

// detectLanguage classifies a file by extension first (§4.A's closed
// mapping, internal/chunker.DetectLanguage), falling back to the shebang
// line per §4.C's "detect language by extension and shebang" rule.
func detectLanguage(path string) chunk.Language {
	if lang := chunker.DetectLanguage(path); lang != chunk.LanguageUnknown {
		return lang
	}
	f, err := os.Open(path)
	if err != nil {
		return chunk.LanguageUnknown
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return chunk.LanguageUnknown
	}
	line := scanner.Text()
	if !strings.HasPrefix(line, "#!") {
		return chunk.LanguageUnknown
	}
	interpreter := strings.TrimPrefix(line, "#!")
	fields := strings.Fields(interpreter)
	if len(fields) == 0 {
		return chunk.LanguageUnknown
	}
	last := fields[len(fields)-1]
	if last == "env" && len(fields) > 1 {
		last = fields[1]
	}
	name := last
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	if lang, ok := shebangLanguage[name]; ok {
		return lang
	}
	return chunk.LanguageUnknown
}
