package resolver

import (
	"context"
	"slices"

	"conflict-resolver/pkg/crdt"
)

const (
	LWWName     = "lww"
	LWWPriority = 10
	LWWRelation = "lww-resolution"

	ReasonNoTimestamps        = "unable to extract timestamps"
	ReasonIdenticalTimestamps = "identical timestamps, no ordering"
)

// LWW keeps the version with the strictly later caller-supplied timestamp.
type LWW struct {
	audit auditor
}

func NewLWW(opts ...Option) *LWW {
	return &LWW{audit: auditor{relation: LWWRelation, opts: newOptions(opts...)}}
}

func (r *LWW) Register() Descriptor {
	return Descriptor{Name: LWWName, Category: CategoryConflictResolution, Priority: LWWPriority}
}

func (r *LWW) AttemptResolve(ctx context.Context, base, v1, v2 []byte, _ string) Outcome {
	return observe(LWWName, func() Outcome {
		ts1, err1 := crdt.ExtractTimestamp(v1)
		ts2, err2 := crdt.ExtractTimestamp(v2)
		if err1 != nil || err2 != nil {
			return CannotResolve{Reason: ReasonNoTimestamps}
		}

		var winner []byte
		switch crdt.Compare(ts1, ts2) {
		case crdt.Equal:
			return CannotResolve{Reason: ReasonIdenticalTimestamps}
		case crdt.Greater:
			winner = v1
		default:
			winner = v2
		}

		result := slices.Clone(winner)
		r.audit.record(ctx, base, v1, v2, result)
		return Resolved{Result: result}
	})
}
