package providers

import (
	"fmt"
	"strings"

	"github.com/cortex-research/cortex/internal/cortexerr"
)

// ConnectionUnavailable builds the §4.D-shaped error for a provider that
// could not be reached: message includes the base URL and a remediation
// hint, grounded on Aman-CERP-amanmcp/internal/embed/ollama.go's
// "failed to connect to Ollama" wrapping.
func ConnectionUnavailable(baseURL string, cause error) *cortexerr.Error {
	return cortexerr.Wrap(cortexerr.ConnectionUnavailable, cause,
		"cannot reach provider at %s (is it running and reachable?)", baseURL)
}

// ModelNotFound builds the §4.D-shaped error for a requested model that
// isn't available: message includes the requested model, the available
// set truncated to maxListed, and an install hint. Grounded on
// findAvailableModel's "tried X and Y" message in the same ollama.go file.
func ModelNotFound(requested string, available []string, maxListed int) *cortexerr.Error {
	shown := available
	truncated := false
	if maxListed > 0 && len(shown) > maxListed {
		shown = shown[:maxListed]
		truncated = true
	}
	list := strings.Join(shown, ", ")
	if truncated {
		list += fmt.Sprintf(", ... (%d more)", len(available)-maxListed)
	}
	if list == "" {
		list = "(none)"
	}
	return cortexerr.New(cortexerr.ModelNotFound,
		"model %q not found (available: %s) -- pull or install it before retrying",
		requested, list)
}
