// Package codec interprets opaque version buffers as JSON values, JSON
// string arrays or UTF-8 text lines.
package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// DecodeValue parses data as any JSON value. Numbers decode as json.Number
// so integers keep their exact text.
func DecodeValue(data []byte) (any, error) {
	var v any
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after value", ErrInvalidJSON)
	}
	return v, nil
}

// DecodeObject parses data as a JSON object.
func DecodeObject(data []byte) (map[string]any, error) {
	v, err := DecodeValue(data)
	if err != nil {
		return nil, err
	}
	obj, ok := v.(map[string]any)
	if !ok {
		return nil, ErrNotObject
	}
	return obj, nil
}

// DecodeStringArray parses data as a JSON array. String elements are taken
// as-is; any other element is represented by its compact JSON text.
func DecodeStringArray(data []byte) ([]string, error) {
	if !utf8.Valid(data) {
		return nil, ErrNotUTF8
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		if json.Valid(data) {
			return nil, ErrNotArray
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if raw == nil {
		// literal null
		return nil, ErrNotArray
	}

	out := make([]string, 0, len(raw))
	for _, elem := range raw {
		elem = bytes.TrimSpace(elem)
		if len(elem) > 0 && elem[0] == '"' {
			var s string
			if err := json.Unmarshal(elem, &s); err != nil {
				return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
			}
			out = append(out, s)
			continue
		}
		var buf bytes.Buffer
		if err := json.Compact(&buf, elem); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
		}
		out = append(out, buf.String())
	}
	return out, nil
}

// EncodeStringArray encodes values as a JSON array. A nil slice encodes as [].
func EncodeStringArray(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	return Encode(values)
}

// Encode marshals v as compact JSON. Unlike json.Marshal it leaves <, > and &
// unescaped, so strings round-trip byte for byte.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Compact returns the compact JSON form of data, or nil and false when data
// is not valid JSON.
func Compact(data []byte) (json.RawMessage, bool) {
	if len(data) == 0 || !json.Valid(data) {
		return nil, false
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, false
	}
	return json.RawMessage(buf.Bytes()), true
}

// Lines splits UTF-8 text into lines. Lines end at "\n"; a trailing "\r" is
// dropped and a final line terminator does not produce an extra empty line.
// Empty input has no lines.
func Lines(data []byte) ([]string, error) {
	if !utf8.Valid(data) {
		return nil, ErrNotUTF8
	}
	if len(data) == 0 {
		return []string{}, nil
	}

	text := strings.TrimSuffix(string(data), "\n")
	parts := strings.Split(text, "\n")
	for i, p := range parts {
		parts[i] = strings.TrimSuffix(p, "\r")
	}
	return parts, nil
}
