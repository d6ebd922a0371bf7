// Package resolver holds the interchangeable conflict-resolution strategies.
//
// Every strategy publishes a Descriptor and answers AttemptResolve with either
// Resolved or CannotResolve. CannotResolve is an ordinary result telling the
// caller to escalate to the next strategy or to a human; malformed input never
// surfaces as an error or a panic.
package resolver

import (
	"context"
	"time"

	"conflict-resolver/pkg/metrics"
)

const CategoryConflictResolution = "conflict-resolution"

type Descriptor struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	// Priority is ordering metadata for strategy selection; lower goes first.
	Priority int `json:"priority"`
}

// Outcome is either Resolved or CannotResolve.
type Outcome interface {
	isOutcome()
}

type Resolved struct {
	Result []byte
}

type CannotResolve struct {
	Reason string
}

func (Resolved) isOutcome()      {}
func (CannotResolve) isOutcome() {}

type Strategy interface {
	Register() Descriptor
	// AttemptResolve merges v1 and v2. base is nil when there is no common
	// ancestor; hint is a strategy-specific, usually JSON, context string.
	AttemptResolve(ctx context.Context, base, v1, v2 []byte, hint string) Outcome
}

// observe runs one attempt and records its outcome and latency.
func observe(name string, attempt func() Outcome) Outcome {
	start := time.Now()
	out := attempt()
	_, ok := out.(Resolved)
	metrics.RecordOutcome(name, ok, time.Since(start))
	return out
}
