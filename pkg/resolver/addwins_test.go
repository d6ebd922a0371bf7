package resolver

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddWins_Register(t *testing.T) {
	assert.Equal(t, Descriptor{Name: "add-wins", Category: "conflict-resolution", Priority: 20}, NewAddWins().Register())
}

func TestAddWins_Union(t *testing.T) {
	got := NewAddWins().AttemptResolve(context.Background(), nil, []byte(`["a","b"]`), []byte(`["b","c"]`), "")
	res, ok := got.(Resolved)
	require.True(t, ok)

	var set []string
	require.NoError(t, json.Unmarshal(res.Result, &set))
	assert.Len(t, set, 3)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, set)
	assert.Equal(t, `["a","b","c"]`, string(res.Result))
}

func TestAddWins_Idempotent(t *testing.T) {
	sets := []string{`[]`, `["x"]`, `["a","b","c"]`, `["c","a","b"]`}
	r := NewAddWins()
	for _, s := range sets {
		got := r.AttemptResolve(context.Background(), nil, []byte(s), []byte(s), "")
		res, ok := got.(Resolved)
		require.True(t, ok, s)

		var want, have []string
		require.NoError(t, json.Unmarshal([]byte(s), &want))
		require.NoError(t, json.Unmarshal(res.Result, &have))
		assert.ElementsMatch(t, want, have)

		// resolving the result with itself is a fixed point
		again := r.AttemptResolve(context.Background(), nil, res.Result, res.Result, "")
		assert.Equal(t, res, again)
	}
}

func TestAddWins_Deterministic(t *testing.T) {
	r := NewAddWins()
	a := r.AttemptResolve(context.Background(), nil, []byte(`["z","a"]`), []byte(`["m"]`), "")
	b := r.AttemptResolve(context.Background(), nil, []byte(`["m"]`), []byte(`["a","z"]`), "")
	assert.Equal(t, a, b)
}

func TestAddWins_NonStringElements(t *testing.T) {
	got := NewAddWins().AttemptResolve(context.Background(), nil, []byte(`[1,"1",{"k":2}]`), []byte(`[true]`), "")
	res, ok := got.(Resolved)
	require.True(t, ok)
	assert.Equal(t, `["1","true","{\"k\":2}"]`, string(res.Result))
}

func TestAddWins_SelfResolveIsByteStable(t *testing.T) {
	in := []byte(`["<a>","b&c"]`)
	got := NewAddWins().AttemptResolve(context.Background(), nil, in, in, "")
	assert.Equal(t, Resolved{Result: in}, got)
}

func TestAddWins_NotSetLike(t *testing.T) {
	inputs := [][2]string{
		{`{"a":1}`, `["a"]`},
		{`["a"]`, `"a"`},
		{`null`, `[]`},
		{`[`, `[]`},
		{"\xff", `[]`},
	}
	for _, in := range inputs {
		got := NewAddWins().AttemptResolve(context.Background(), nil, []byte(in[0]), []byte(in[1]), "")
		assert.Equal(t, CannotResolve{Reason: ReasonNotSetLike}, got, "%q", in)
	}
}
