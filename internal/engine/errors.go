package engine

import (
	"fmt"
	"strings"
)

// InitError reports that the encoding engine could not be initialized.
// It is fatal for the whole job and is not retried internally.
type InitError struct {
	Cause error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("engine initialization failed: %v", e.Cause)
}

func (e *InitError) Unwrap() error {
	return e.Cause
}

// StrategyError reports the failure of one rendering strategy. The
// orchestrator absorbs these and escalates to the next strategy; they are
// never surfaced to the caller directly.
type StrategyError struct {
	Strategy string
	Cause    error
}

func (e *StrategyError) Error() string {
	return fmt.Sprintf("strategy %s failed: %v", e.Strategy, e.Cause)
}

func (e *StrategyError) Unwrap() error {
	return e.Cause
}

// ExhaustedError reports that every rendering strategy and the raw
// passthrough failed. It carries the per-strategy causes so the caller can
// log what was attempted.
type ExhaustedError struct {
	Attempts []*StrategyError
}

func (e *ExhaustedError) Error() string {
	parts := make([]string, 0, len(e.Attempts))
	for _, a := range e.Attempts {
		parts = append(parts, a.Error())
	}
	return fmt.Sprintf("video processing failed after %d attempts; check logs for details: %s",
		len(e.Attempts), strings.Join(parts, "; "))
}
