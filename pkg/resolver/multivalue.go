package resolver

import (
	"bytes"
	"context"
	"encoding/json"
	"slices"

	"conflict-resolver/pkg/crdt"
)

const (
	MultiValueName     = "multi-value"
	MultiValuePriority = 50

	HintMultiValue    = "multi-value"
	HintLastWriteWins = "last-write-wins"

	reasonUnknownHint = "Unknown resolution strategy: "
)

// MultiValue keeps both siblings for application-level reconciliation unless
// the hint's "strategy" field asks otherwise.
type MultiValue struct{}

func NewMultiValue() *MultiValue {
	return &MultiValue{}
}

func (r *MultiValue) Register() Descriptor {
	return Descriptor{Name: MultiValueName, Category: CategoryConflictResolution, Priority: MultiValuePriority}
}

func (r *MultiValue) AttemptResolve(_ context.Context, base, v1, v2 []byte, hint string) Outcome {
	return observe(MultiValueName, func() Outcome {
		if bytes.Equal(v1, v2) {
			return Resolved{Result: slices.Clone(v1)}
		}

		switch strategy := hintStrategy(hint); strategy {
		case HintMultiValue:
			result, err := json.Marshal(crdt.NewMultiValue(base, v1, v2))
			if err != nil {
				return CannotResolve{Reason: err.Error()}
			}
			return Resolved{Result: result}
		case HintLastWriteWins:
			return Resolved{Result: slices.Clone(v2)}
		default:
			return CannotResolve{Reason: reasonUnknownHint + strategy}
		}
	})
}

// hintStrategy reads the string "strategy" field of a JSON object hint.
// Anything else yields the multi-value default.
func hintStrategy(hint string) string {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(hint), &parsed); err != nil {
		return HintMultiValue
	}
	if s, ok := parsed["strategy"].(string); ok {
		return s
	}
	return HintMultiValue
}
