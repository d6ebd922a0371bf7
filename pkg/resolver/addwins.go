package resolver

import (
	"context"

	"conflict-resolver/pkg/codec"
	"conflict-resolver/pkg/crdt"
)

const (
	AddWinsName     = "add-wins"
	AddWinsPriority = 20
	AddWinsRelation = "add-wins-resolution"

	ReasonNotSetLike = "not a set-like structure"
)

// AddWins merges two JSON array snapshots as an OR-Set: the result is the
// sorted union. Non-string elements take part as their compact JSON text.
type AddWins struct {
	audit auditor
}

func NewAddWins(opts ...Option) *AddWins {
	return &AddWins{audit: auditor{relation: AddWinsRelation, opts: newOptions(opts...)}}
}

func (r *AddWins) Register() Descriptor {
	return Descriptor{Name: AddWinsName, Category: CategoryConflictResolution, Priority: AddWinsPriority}
}

func (r *AddWins) AttemptResolve(ctx context.Context, base, v1, v2 []byte, _ string) Outcome {
	return observe(AddWinsName, func() Outcome {
		s1, err1 := codec.DecodeStringArray(v1)
		s2, err2 := codec.DecodeStringArray(v2)
		if err1 != nil || err2 != nil {
			return CannotResolve{Reason: ReasonNotSetLike}
		}

		result, err := codec.EncodeStringArray(crdt.Union(s1, s2))
		if err != nil {
			return CannotResolve{Reason: ReasonNotSetLike}
		}

		r.audit.record(ctx, base, v1, v2, result)
		return Resolved{Result: result}
	})
}
