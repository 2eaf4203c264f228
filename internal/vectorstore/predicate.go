package vectorstore

import (
	"strings"

	"github.com/cortex-research/cortex/internal/chunk"
	"github.com/cortex-research/cortex/internal/cortexerr"
)

// escapeLiteral implements spec.md §4.B's "safe predicates": escape single
// quotes by doubling them, then wrap the result in single quotes. Every
// string predicate this package builds by hand (as opposed to a
// Masterminds/squirrel placeholder-bound value) goes through this function
// first, so a value like "' OR '1'='1" becomes the inert string literal
// `''' OR ''1''=''1'` rather than closing the quote early.
func escapeLiteral(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	b.WriteString(strings.ReplaceAll(s, "'", "''"))
	b.WriteByte('\'')
	return b.String()
}

// validateLanguage rejects a language filter that is not in the closed
// enum, before any I/O, per spec.md §4.B.
func validateLanguage(lang string) error {
	if lang == "" {
		return nil
	}
	if !chunk.ValidLanguages[chunk.Language(lang)] {
		return cortexerr.Invalid("language", lang, validLanguageNames())
	}
	return nil
}

// validateKind rejects a kind filter that is not in the closed enum, before
// any I/O, per spec.md §4.B.
func validateKind(kind string) error {
	if kind == "" {
		return nil
	}
	if !chunk.ValidKinds[chunk.Kind(kind)] {
		return cortexerr.Invalid("kind", kind, validKindNames())
	}
	return nil
}

func validLanguageNames() string {
	names := make([]string, 0, len(chunk.ValidLanguages))
	for l := range chunk.ValidLanguages {
		names = append(names, string(l))
	}
	return strings.Join(names, ", ")
}

func validKindNames() string {
	names := make([]string, 0, len(chunk.ValidKinds))
	for k := range chunk.ValidKinds {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}
