package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned for empty carts, non-positive
	// quantities and empty search terms or cities. Never retried.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCityNotFound is returned when a city has no known branches.
	// A definitive negative result, distinct from transient failures.
	ErrCityNotFound = errors.New("no stores in city")

	// ErrNoCompleteMatch is returned when every branch failed to
	// resolve at least one requested item. The service never
	// substitutes a partial cart for a complete one.
	ErrNoCompleteMatch = errors.New("no branch carries all requested items")

	// ErrProductNotFound is returned when no branch in the city prices
	// the requested item code.
	ErrProductNotFound = errors.New("no prices for item code")

	// ErrStoreUnavailable is returned when the price store cannot be
	// reached. Transient; callers may retry.
	ErrStoreUnavailable = errors.New("price store unavailable")
)

// NoCompleteMatchError carries per-branch resolution diagnostics so a
// caller can tell "nothing fits" apart from "merely not cheapest".
type NoCompleteMatchError struct {
	// Required is the number of cart lines that had to resolve.
	Required int
	// ResolvedPerBranch maps branch key (chain:branch_id) to how many
	// lines that branch managed to resolve.
	ResolvedPerBranch map[string]int
}

func (e *NoCompleteMatchError) Error() string {
	return fmt.Sprintf("%v: %d items required, %d branches checked",
		ErrNoCompleteMatch, e.Required, len(e.ResolvedPerBranch))
}

// Unwrap lets errors.Is match against ErrNoCompleteMatch.
func (e *NoCompleteMatchError) Unwrap() error {
	return ErrNoCompleteMatch
}

// InvalidInputError wraps ErrInvalidInput with a field-level reason.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrInvalidInput, e.Field, e.Reason)
}

// Unwrap lets errors.Is match against ErrInvalidInput.
func (e *InvalidInputError) Unwrap() error {
	return ErrInvalidInput
}
