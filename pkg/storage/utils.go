package storage

import (
	"encoding/json"
	"hash/fnv"
	"reflect"
)

func hashKey(key string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(key))
	return h.Sum32()
}

func checkKey(relation, key string) error {
	if relation == "" {
		return ErrEmptyRelation
	}
	if key == "" {
		return ErrEmptyKey
	}
	return nil
}

func encode(value any) (json.RawMessage, error) {
	if raw, ok := value.(json.RawMessage); ok {
		if !json.Valid(raw) {
			return nil, ErrInvalidDocument
		}
		return append(json.RawMessage(nil), raw...), nil
	}
	return json.Marshal(value)
}

// normalizeFilter round-trips the filter through JSON so its values compare
// equal to decoded documents (numbers as float64, structs as maps).
func normalizeFilter(filter map[string]any) (map[string]any, error) {
	if len(filter) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(filter)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// matches reports whether every filter field is present in doc with an equal
// value. A nil filter matches everything.
func matches(doc json.RawMessage, filter map[string]any) bool {
	if len(filter) == 0 {
		return true
	}
	var fields map[string]any
	if err := json.Unmarshal(doc, &fields); err != nil {
		return false
	}
	for k, want := range filter {
		got, ok := fields[k]
		if !ok || !reflect.DeepEqual(got, want) {
			return false
		}
	}
	return true
}
