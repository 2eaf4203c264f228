package crosslink

import (
	"strings"
	"unicode"
)

// CamelToSpaced converts a camel-case or Pascal-case identifier to its
// spaced form (e.g. "VectorStore" -> "Vector Store"), per §3's entity
// `aliases` example and §4.G rule 2 ("match the entity's camel-case->spaced
// alias"). Runs of uppercase letters (an acronym) are kept together, e.g.
// "HTTPClient" -> "HTTP Client".
func CamelToSpaced(name string) string {
	runes := []rune(name)
	if len(runes) == 0 {
		return ""
	}
	var b strings.Builder
	for i, r := range runes {
		if i > 0 && startsNewWord(runes, i) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func startsNewWord(runes []rune, i int) bool {
	prev := runes[i-1]
	cur := runes[i]
	if unicode.IsUpper(cur) && unicode.IsLower(prev) {
		return true
	}
	if unicode.IsUpper(cur) && unicode.IsUpper(prev) && i+1 < len(runes) && unicode.IsLower(runes[i+1]) {
		return true
	}
	if unicode.IsUpper(cur) && unicode.IsDigit(prev) {
		return true
	}
	return false
}

// aliasesFor returns every textual form §4.G rule 2 says must be matched
// for one entity name: the name itself, its registered aliases, and the
// camel-case-to-spaced form (computed if not already present among the
// registered aliases).
func aliasesFor(name string, registered []string) []string {
	forms := []string{name}
	forms = append(forms, registered...)

	spaced := CamelToSpaced(name)
	if spaced != name && !containsFold(forms, spaced) {
		forms = append(forms, spaced)
	}
	return forms
}

func containsFold(forms []string, s string) bool {
	for _, f := range forms {
		if strings.EqualFold(f, s) {
			return true
		}
	}
	return false
}
