// Package fieldmerge resolves two versions of a record field by field
// against their common ancestor.
//
// Every field in keys(ancestor) ∪ keys(A) ∪ keys(B) lands in exactly one
// Decision. Fields both sides changed to different values are kept from A as
// a placeholder and reported in Details.TrueConflicts; callers must check
// Details.FullyResolved (or CanAutoResolve) before trusting those fields.
package fieldmerge

import (
	"fmt"
	"reflect"
	"sort"

	"conflict-resolver/pkg/codec"
)

const StrategyName = "field_merge"

type Decision string

const (
	Unchanged            Decision = "unchanged"
	TookVersionA         Decision = "took_version_a"
	TookVersionB         Decision = "took_version_b"
	BothAgree            Decision = "both_agree"
	ConflictDefaultedToA Decision = "conflict_defaulted_to_a"
)

// Conflict is one divergence event for a single entity.
type Conflict struct {
	EntityID string
	VersionA map[string]any
	VersionB map[string]any
	// Ancestor may be nil, which is treated as an empty record.
	Ancestor map[string]any
}

// Config carries caller options. They are echoed into Details.Options and
// do not change field classification.
type Config struct {
	Options map[string]any `json:"options,omitempty"`
}

type Details struct {
	EntityID          string              `json:"entity_id"`
	AutoMergedFields  []string            `json:"auto_merged_fields"`
	TrueConflicts     []string            `json:"true_conflicts"`
	FieldDecisions    map[string]Decision `json:"field_decisions"`
	TotalFields       int                 `json:"total_fields"`
	AutoMergedCount   int                 `json:"auto_merged_count"`
	TrueConflictCount int                 `json:"true_conflict_count"`
	FullyResolved     bool                `json:"fully_resolved"`
	Options           map[string]any      `json:"options,omitempty"`
}

type Resolution struct {
	Winner   map[string]any `json:"winner"`
	Strategy string         `json:"strategy"`
	Details  Details        `json:"details"`
}

// NewConflict decodes the three versions as JSON objects. A nil ancestor
// means there is no common base.
func NewConflict(entityID string, a, b, ancestor []byte) (Conflict, error) {
	va, err := codec.DecodeObject(a)
	if err != nil {
		return Conflict{}, fmt.Errorf("version a: %w", err)
	}
	vb, err := codec.DecodeObject(b)
	if err != nil {
		return Conflict{}, fmt.Errorf("version b: %w", err)
	}

	c := Conflict{EntityID: entityID, VersionA: va, VersionB: vb}
	if ancestor != nil {
		anc, err := codec.DecodeObject(ancestor)
		if err != nil {
			return Conflict{}, fmt.Errorf("ancestor: %w", err)
		}
		c.Ancestor = anc
	}
	return c, nil
}

type Resolver struct{}

func New() *Resolver {
	return &Resolver{}
}

// Resolve never fails.
func (r *Resolver) Resolve(c Conflict, cfg Config) Resolution {
	fields := allFields(c)

	winner := make(map[string]any, len(fields))
	decisions := make(map[string]Decision, len(fields))
	autoMerged := make([]string, 0, len(fields))
	conflicts := make([]string, 0)

	for _, f := range fields {
		d := classify(c, f)
		decisions[f] = d

		var src map[string]any
		switch d {
		case Unchanged:
			src = c.Ancestor
		case TookVersionB:
			src = c.VersionB
			autoMerged = append(autoMerged, f)
		case TookVersionA, BothAgree:
			src = c.VersionA
			autoMerged = append(autoMerged, f)
		case ConflictDefaultedToA:
			src = c.VersionA
			conflicts = append(conflicts, f)
		}
		// a side that deleted the field keeps it deleted
		if v, ok := src[f]; ok {
			winner[f] = v
		}
	}

	return Resolution{
		Winner:   winner,
		Strategy: StrategyName,
		Details: Details{
			EntityID:          c.EntityID,
			AutoMergedFields:  autoMerged,
			TrueConflicts:     conflicts,
			FieldDecisions:    decisions,
			TotalFields:       len(fields),
			AutoMergedCount:   len(autoMerged),
			TrueConflictCount: len(conflicts),
			FullyResolved:     len(conflicts) == 0,
			Options:           cfg.Options,
		},
	}
}

// CanAutoResolve reports whether no field is a true conflict.
func (r *Resolver) CanAutoResolve(c Conflict) bool {
	for _, f := range allFields(c) {
		if classify(c, f) == ConflictDefaultedToA {
			return false
		}
	}
	return true
}

func classify(c Conflict, field string) Decision {
	aChanged := !sameField(c.Ancestor, c.VersionA, field)
	bChanged := !sameField(c.Ancestor, c.VersionB, field)

	switch {
	case !aChanged && !bChanged:
		return Unchanged
	case aChanged && !bChanged:
		return TookVersionA
	case !aChanged && bChanged:
		return TookVersionB
	case sameField(c.VersionA, c.VersionB, field):
		return BothAgree
	default:
		return ConflictDefaultedToA
	}
}

// sameField treats an absent field and a present one as different, so
// deleting a field counts as a change.
func sameField(x, y map[string]any, field string) bool {
	vx, okX := x[field]
	vy, okY := y[field]
	if okX != okY {
		return false
	}
	return !okX || reflect.DeepEqual(vx, vy)
}

func allFields(c Conflict) []string {
	seen := make(map[string]struct{}, len(c.VersionA)+len(c.VersionB)+len(c.Ancestor))
	for _, m := range []map[string]any{c.Ancestor, c.VersionA, c.VersionB} {
		for k := range m {
			seen[k] = struct{}{}
		}
	}
	fields := make([]string, 0, len(seen))
	for k := range seen {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}
