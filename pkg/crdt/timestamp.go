package crdt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// Compare results.
const (
	Lower   = -1
	Equal   = 0
	Greater = 1
)

// TimestampField is the JSON field carrying a version's write time.
const TimestampField = "_ts"

// Timestamp is a caller-supplied write time in epoch milliseconds.
type Timestamp struct {
	Millis int64 `json:"millis"`
}

func (t Timestamp) Before(other Timestamp) bool { return Compare(t, other) == Lower }
func (t Timestamp) After(other Timestamp) bool  { return Compare(t, other) == Greater }

func (t Timestamp) String() string {
	return time.UnixMilli(t.Millis).UTC().Format(time.RFC3339Nano)
}

func Compare(a, b Timestamp) int {
	if a.Millis < b.Millis {
		return Lower
	}
	if a.Millis > b.Millis {
		return Greater
	}
	return Equal
}

// ExtractTimestamp reads the write time of a version. Accepted forms:
//   - a JSON object whose "_ts" field is an integer (epoch millis) or an
//     RFC 3339 string;
//   - the whole value as an RFC 3339 string, bare or JSON-quoted.
func ExtractTimestamp(value []byte) (Timestamp, error) {
	if !utf8.Valid(value) {
		return Timestamp{}, ErrNoTimestamp
	}

	var parsed any
	dec := json.NewDecoder(bytes.NewReader(value))
	dec.UseNumber()
	if err := dec.Decode(&parsed); err == nil {
		switch v := parsed.(type) {
		case map[string]any:
			if ts, ok := fromField(v[TimestampField]); ok {
				return ts, nil
			}
		case string:
			if ts, err := parseRFC3339(v); err == nil {
				return ts, nil
			}
		}
	}

	if ts, err := parseRFC3339(strings.TrimSpace(string(value))); err == nil {
		return ts, nil
	}
	return Timestamp{}, ErrNoTimestamp
}

func fromField(raw any) (Timestamp, bool) {
	switch v := raw.(type) {
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return Timestamp{}, false
		}
		return Timestamp{Millis: n}, true
	case string:
		ts, err := parseRFC3339(v)
		if err != nil {
			return Timestamp{}, false
		}
		return ts, true
	}
	return Timestamp{}, false
}

func parseRFC3339(s string) (Timestamp, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return Timestamp{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return Timestamp{Millis: t.UnixMilli()}, nil
}
