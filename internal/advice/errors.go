package advice

import (
	"errors"
	"fmt"
)

var (
	// ErrExhausted means every candidate was tried and none produced acceptable output.
	ErrExhausted = errors.New("all provider candidates exhausted")
	// ErrNoAnalysis means a plan was requested before any successful analysis.
	ErrNoAnalysis = errors.New("no analysis yet: run analyze first")
	// ErrPlanUnavailable is the retryable plan failure surfaced after exhaustion.
	ErrPlanUnavailable = errors.New("plan generation temporarily unavailable, please try again shortly")
)

// ProviderError is an unexpected provider failure that aborted a fallback chain.
type ProviderError struct {
	Model      string
	StatusCode int
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("provider request for %s failed with status %d: %v", e.Model, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("provider request for %s failed: %v", e.Model, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }
