package crdt

import (
	"encoding/json"

	"conflict-resolver/pkg/codec"
)

var jsonNull = json.RawMessage("null")

// MultiValue preserves concurrent siblings for application-level
// reconciliation (multi-value register). Values that are not JSON are kept
// as null.
type MultiValue struct {
	MultiValue bool              `json:"__multiValue"`
	Values     []json.RawMessage `json:"values"`
	Base       json.RawMessage   `json:"base"`
}

// NewMultiValue wraps both siblings and the optional ancestor.
func NewMultiValue(base, v1, v2 []byte) MultiValue {
	mv := MultiValue{
		MultiValue: true,
		Values:     []json.RawMessage{rawOrNull(v1), rawOrNull(v2)},
		Base:       jsonNull,
	}
	if base != nil {
		mv.Base = rawOrNull(base)
	}
	return mv
}

func (mv MultiValue) MarshalJSON() ([]byte, error) {
	type alias MultiValue
	out := alias(mv)
	if out.Base == nil {
		out.Base = jsonNull
	}
	if out.Values == nil {
		out.Values = []json.RawMessage{}
	}
	return json.Marshal(out)
}

// ParseMultiValue recognises an envelope produced by NewMultiValue.
func ParseMultiValue(data []byte) (MultiValue, error) {
	var mv MultiValue
	if err := json.Unmarshal(data, &mv); err != nil {
		return MultiValue{}, ErrNotMultiValue
	}
	if !mv.MultiValue {
		return MultiValue{}, ErrNotMultiValue
	}
	return mv, nil
}

func rawOrNull(v []byte) json.RawMessage {
	raw, ok := codec.Compact(v)
	if !ok {
		return jsonNull
	}
	return raw
}
