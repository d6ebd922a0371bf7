package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	ID     string `json:"id"`
	Result string `json:"result"`
	N      int    `json:"n"`
}

func backends(t *testing.T) map[string]Storage {
	t.Helper()

	bs, err := OpenBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = bs.Close() })

	return map[string]Storage{
		"memory": NewMemoryStore(4),
		"badger": bs,
	}
}

func TestStorage_PutGetDel(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := s.Get(ctx, "rel", "k1")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Put(ctx, "rel", "k1", record{ID: "k1", Result: "a", N: 1}))
			doc, ok, err := s.Get(ctx, "rel", "k1")
			require.NoError(t, err)
			require.True(t, ok)
			assert.JSONEq(t, `{"id":"k1","result":"a","n":1}`, string(doc))

			// upsert
			require.NoError(t, s.Put(ctx, "rel", "k1", json.RawMessage(`{"id":"k1","result":"b"}`)))
			doc, _, err = s.Get(ctx, "rel", "k1")
			require.NoError(t, err)
			assert.JSONEq(t, `{"id":"k1","result":"b"}`, string(doc))

			// same key in another relation is independent
			_, ok, err = s.Get(ctx, "other", "k1")
			require.NoError(t, err)
			assert.False(t, ok)

			require.NoError(t, s.Del(ctx, "rel", "k1"))
			require.NoError(t, s.Del(ctx, "rel", "k1"))
			_, ok, err = s.Get(ctx, "rel", "k1")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestStorage_Find(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, r := range []record{
				{ID: "c", Result: "x", N: 3},
				{ID: "a", Result: "x", N: 1},
				{ID: "b", Result: "y", N: 2},
			} {
				require.NoError(t, s.Put(ctx, "audit", r.ID, r))
			}
			require.NoError(t, s.Put(ctx, "audit-2", "z", record{ID: "z", Result: "x"}))

			all, err := s.Find(ctx, "audit", nil)
			require.NoError(t, err)
			require.Len(t, all, 3)
			var ids []string
			for _, doc := range all {
				var r record
				require.NoError(t, json.Unmarshal(doc, &r))
				ids = append(ids, r.ID)
			}
			assert.Equal(t, []string{"a", "b", "c"}, ids)

			xs, err := s.Find(ctx, "audit", map[string]any{"result": "x"})
			require.NoError(t, err)
			assert.Len(t, xs, 2)

			// int filter values match decoded float64 fields
			ns, err := s.Find(ctx, "audit", map[string]any{"n": 2})
			require.NoError(t, err)
			require.Len(t, ns, 1)
			assert.Contains(t, string(ns[0]), `"b"`)

			none, err := s.Find(ctx, "missing", nil)
			require.NoError(t, err)
			assert.NotNil(t, none)
			assert.Empty(t, none)
		})
	}
}

func TestStorage_Validation(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			assert.ErrorIs(t, s.Put(ctx, "", "k", 1), ErrEmptyRelation)
			assert.ErrorIs(t, s.Put(ctx, "r", "", 1), ErrEmptyKey)
			assert.ErrorIs(t, s.Put(ctx, "r", "k", json.RawMessage(`{bad`)), ErrInvalidDocument)

			_, _, err := s.Get(ctx, "r", "")
			assert.ErrorIs(t, err, ErrEmptyKey)

			_, err = s.Find(ctx, "", nil)
			assert.ErrorIs(t, err, ErrEmptyRelation)

			canceled, cancel := context.WithCancel(ctx)
			cancel()
			assert.ErrorIs(t, s.Put(canceled, "r", "k", 1), context.Canceled)
		})
	}
}

func TestStorage_ConcurrentPuts(t *testing.T) {
	ctx := context.Background()
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			var wg sync.WaitGroup
			for i := 0; i < 50; i++ {
				wg.Add(1)
				go func(i int) {
					defer wg.Done()
					key := fmt.Sprintf("k%03d", i)
					assert.NoError(t, s.Put(ctx, "rel", key, record{ID: key, N: i}))
				}(i)
			}
			wg.Wait()

			all, err := s.Find(ctx, "rel", nil)
			require.NoError(t, err)
			assert.Len(t, all, 50)
		})
	}
}

func TestBadgerStore_Closed(t *testing.T) {
	s, err := OpenBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	ctx := context.Background()
	assert.ErrorIs(t, s.Put(ctx, "r", "k", 1), ErrClosed)
	_, err = s.Find(ctx, "r", nil)
	assert.ErrorIs(t, err, ErrClosed)
}

func TestBadgerStore_Persistent(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	s, err := OpenBadger(BadgerConfig{Dir: dir, SyncWrites: true})
	require.NoError(t, err)
	require.NoError(t, s.Put(ctx, "rel", "k", record{ID: "k"}))
	require.NoError(t, s.Close())

	s, err = OpenBadger(BadgerConfig{Dir: dir})
	require.NoError(t, err)
	defer s.Close()
	doc, ok, err := s.Get(ctx, "rel", "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(doc), `"k"`)

	_, err = OpenBadger(BadgerConfig{})
	assert.Error(t, err)
}
