package crdt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnion(t *testing.T) {
	tests := []struct {
		name string
		a    []string
		b    []string
		want []string
	}{
		{name: "overlap", a: []string{"a", "b"}, b: []string{"b", "c"}, want: []string{"a", "b", "c"}},
		{name: "duplicates inside a side", a: []string{"x", "x"}, b: []string{"x"}, want: []string{"x"}},
		{name: "one side empty", a: nil, b: []string{"z", "y"}, want: []string{"y", "z"}},
		{name: "both empty", a: nil, b: nil, want: []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Union(tc.a, tc.b))
		})
	}
}

func TestUnion_IdempotentAndCommutative(t *testing.T) {
	s := []string{"tag-3", "tag-1", "tag-2"}
	assert.Equal(t, Union(s, nil), Union(s, s))

	a := []string{"a", "q"}
	b := []string{"q", "b"}
	assert.Equal(t, Union(a, b), Union(b, a))
}

func TestNewMultiValue(t *testing.T) {
	mv := NewMultiValue(nil, []byte(`"a"`), []byte(`{"k": 1}`))
	out, err := json.Marshal(mv)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, true, decoded["__multiValue"])
	assert.Equal(t, []any{"a", map[string]any{"k": float64(1)}}, decoded["values"])
	assert.Nil(t, decoded["base"])
}

func TestNewMultiValue_NonJSONBecomesNull(t *testing.T) {
	mv := NewMultiValue([]byte("not json"), []byte("plain"), []byte(`2`))
	out, err := json.Marshal(mv)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, []any{nil, float64(2)}, decoded["values"])
	assert.Nil(t, decoded["base"])
}

func TestParseMultiValue(t *testing.T) {
	out, err := json.Marshal(NewMultiValue([]byte(`"base"`), []byte(`1`), []byte(`2`)))
	require.NoError(t, err)

	mv, err := ParseMultiValue(out)
	require.NoError(t, err)
	assert.True(t, mv.MultiValue)
	require.Len(t, mv.Values, 2)
	assert.JSONEq(t, `"base"`, string(mv.Base))

	_, err = ParseMultiValue([]byte(`{"values":[1,2]}`))
	assert.ErrorIs(t, err, ErrNotMultiValue)

	_, err = ParseMultiValue([]byte(`[1,2]`))
	assert.ErrorIs(t, err, ErrNotMultiValue)
}
