package agent

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers a missing or unowned project or document.
	ErrNotFound = errors.New("resource not found")

	// ErrDuplicateName is returned by DocumentStore.Create on a name collision.
	ErrDuplicateName = errors.New("document name already exists")

	// ErrModelUnavailable covers transport failures and timeouts on model calls.
	ErrModelUnavailable = errors.New("model unavailable")

	// ErrSearchUnavailable marks a degraded (non-fatal) web search.
	ErrSearchUnavailable = errors.New("search unavailable")
)

// DecisionParseError reports a model reply that could not be parsed into a
// decision. It carries the raw reply for logging; there is no retry.
type DecisionParseError struct {
	Raw string
	Err error
}

func (e *DecisionParseError) Error() string {
	return fmt.Sprintf("decision parse failed: %v", e.Err)
}

func (e *DecisionParseError) Unwrap() error {
	return e.Err
}
