// Package cortexerr defines the closed set of error kinds shared by the
// vector store, the provider contract, the indexer, and the research
// pipeline (spec §7): typed values instead of exception hierarchies, so
// callers branch on kind with errors.Is/errors.As rather than string
// matching.
//
// Grounded on kadirpekel-hector's v2/rag/retry.go and health.go, which
// carry the same "kind drives retry policy" idea, generalized here into one
// closed Kind enum reused across every package instead of a single
// retry-only error type.
package cortexerr

import (
	"errors"
	"fmt"
)

// Kind is the closed set of error kinds (spec §7).
type Kind string

const (
	InvalidArgument      Kind = "InvalidArgument"
	NotFound             Kind = "NotFound"
	ConnectionUnavailable Kind = "ConnectionUnavailable"
	ProviderTimeout      Kind = "ProviderTimeout"
	RateLimited          Kind = "RateLimited"
	ServerOverloaded     Kind = "ServerOverloaded"
	ModelNotFound        Kind = "ModelNotFound"
	CorruptState         Kind = "CorruptState"
	ResearchCancelled    Kind = "ResearchCancelled"
	BudgetExceeded       Kind = "BudgetExceeded"
)

// Retryable reports whether an error of this kind should be retried by the
// provider decorator (spec §7): network and throttling failures are
// retried, configuration and terminal failures are not.
func (k Kind) Retryable() bool {
	switch k {
	case ConnectionUnavailable, ProviderTimeout, RateLimited, ServerOverloaded:
		return true
	default:
		return false
	}
}

// Error is the error value every package in this repository returns for a
// classified failure. Field is set for InvalidArgument failures so the
// caller can report the offending field, observed value, and accepted set
// (spec §7's "user-visible failures include the offending field...").
type Error struct {
	Kind    Kind
	Message string
	Field   string // set for InvalidArgument
	Step    string // set for ResearchCancelled
	Err     error  // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s[%s]: %s", e.Kind, e.Step, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// Is makes errors.Is(err, cortexerr.New(kind, "")) match on Kind alone,
// regardless of message, so callers can probe for a kind without
// constructing the exact message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Kind == t.Kind
	}
	return false
}

// New builds a plain Error of the given kind.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind around an underlying cause.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

// Invalid builds an InvalidArgument error naming the offending field, the
// observed value, and the accepted set or constraint, per spec §7.
func Invalid(field string, observed any, accepted string) *Error {
	return &Error{
		Kind:    InvalidArgument,
		Field:   field,
		Message: fmt.Sprintf("invalid %s: %v (accepted: %s)", field, observed, accepted),
	}
}

// Cancelled builds a ResearchCancelled error naming the step the pipeline
// was cancelled at.
func Cancelled(step string) *Error {
	return &Error{Kind: ResearchCancelled, Step: step, Message: "cancelled"}
}

// KindOf extracts the Kind of err if it is (or wraps) a *Error, and ok=false
// otherwise.
func KindOf(err error) (Kind, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	return "", false
}
