package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"conflict-resolver/pkg/codec"
	"conflict-resolver/pkg/fieldmerge"
	"conflict-resolver/pkg/semantic"
)

const (
	FieldMergeName     = "field-merge"
	FieldMergePriority = 30

	SemanticMergeName     = semantic.Name
	SemanticMergePriority = 40

	ReasonNotRecords        = "versions are not JSON objects"
	ReasonNeedsBase         = "three-way merge requires a common ancestor"
	reasonConflictingFields = "conflicting fields: "
)

// FieldMerge runs the field-level three-way merge behind the Strategy
// contract. Only fully resolved merges are Resolved; the defaulted winner of
// a partial merge is never handed out.
type FieldMerge struct {
	merger *fieldmerge.Resolver
}

func NewFieldMerge() *FieldMerge {
	return &FieldMerge{merger: fieldmerge.New()}
}

func (r *FieldMerge) Register() Descriptor {
	return Descriptor{Name: FieldMergeName, Category: CategoryConflictResolution, Priority: FieldMergePriority}
}

// AttemptResolve reads an optional "entity_id" from the JSON hint.
func (r *FieldMerge) AttemptResolve(_ context.Context, base, v1, v2 []byte, hint string) Outcome {
	return observe(FieldMergeName, func() Outcome {
		conflict, err := fieldmerge.NewConflict(hintEntityID(hint), v1, v2, base)
		if err != nil {
			return CannotResolve{Reason: ReasonNotRecords}
		}

		res := r.merger.Resolve(conflict, fieldmerge.Config{})
		if !res.Details.FullyResolved {
			return CannotResolve{Reason: reasonConflictingFields + strings.Join(res.Details.TrueConflicts, ", ")}
		}

		result, err := codec.Encode(res.Winner)
		if err != nil {
			return CannotResolve{Reason: err.Error()}
		}
		return Resolved{Result: result}
	})
}

func hintEntityID(hint string) string {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(hint), &parsed); err != nil {
		return ""
	}
	id, _ := parsed["entity_id"].(string)
	return id
}

// SemanticMerge runs the line merge behind the Strategy contract, with v1 as
// ours and v2 as theirs.
type SemanticMerge struct {
	merger *semantic.Merger
}

func NewSemanticMerge() *SemanticMerge {
	return &SemanticMerge{merger: semantic.New()}
}

func (r *SemanticMerge) Register() Descriptor {
	return Descriptor{Name: SemanticMergeName, Category: CategoryConflictResolution, Priority: SemanticMergePriority}
}

func (r *SemanticMerge) AttemptResolve(_ context.Context, base, v1, v2 []byte, _ string) Outcome {
	return observe(SemanticMergeName, func() Outcome {
		if base == nil {
			return CannotResolve{Reason: ReasonNeedsBase}
		}

		switch res := r.merger.Execute(base, v1, v2).(type) {
		case semantic.Clean:
			return Resolved{Result: res.Result}
		case semantic.Conflicts:
			return CannotResolve{Reason: fmt.Sprintf("%d conflicting regions", len(res.Regions))}
		case semantic.UnsupportedContent:
			return CannotResolve{Reason: res.Message}
		default:
			return CannotResolve{Reason: fmt.Sprintf("unexpected merge result %T", res)}
		}
	})
}
