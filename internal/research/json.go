package research

import (
	"encoding/json"
	"strings"
)

// parseLeniently extracts a JSON object from raw LLM output and unmarshals
// it into v, tolerating the common ways a model's text deviates from pure
// JSON: a ```json ... ``` fence, leading/trailing prose, or a bare object
// embedded in a longer response. It never returns an error that callers are
// expected to fail on -- every caller in this package treats a parse
// failure as "fall back", per §4.E's "parsed leniently: if parsing fails,
// the pipeline falls back" and "invalid JSON yields zero follow-ups" rules.
//
// Grounded on the "skip malformed lines, don't fail the operation" idiom in
// Aman-CERP-amanmcp's internal/lifecycle/ollama.go pull-progress reader,
// generalised from "skip" to "fall back to a caller-supplied default" since
// this is a single LLM response rather than a progress stream.
func parseLeniently(raw string, v any) bool {
	candidate := extractJSONObject(raw)
	if candidate == "" {
		return false
	}
	return json.Unmarshal([]byte(candidate), v) == nil
}

// extractJSONObject finds the first balanced {...} span in s, first
// stripping a markdown code fence if present. Returns "" if no balanced
// object is found.
func extractJSONObject(s string) string {
	s = stripCodeFence(s)

	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}

// stripCodeFence removes a leading ```json / ``` fence and its closing
// fence, if present, leaving the raw text otherwise untouched.
func stripCodeFence(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return s
	}
	trimmed = strings.TrimPrefix(trimmed, "```")
	if nl := strings.IndexByte(trimmed, '\n'); nl >= 0 {
		firstLine := strings.TrimSpace(trimmed[:nl])
		if firstLine == "" || strings.EqualFold(firstLine, "json") {
			trimmed = trimmed[nl+1:]
		}
	}
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return trimmed
}
