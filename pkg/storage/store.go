// Package storage provides the key-value document store that persists
// resolution audit records. Documents are JSON and grouped by relation.
package storage

import (
	"context"
	"encoding/json"
)

// Storage is the generic document store collaborator.
type Storage interface {
	// Get returns the document stored under relation/key and whether it exists.
	Get(ctx context.Context, relation, key string) (json.RawMessage, bool, error)
	// Put upserts value, encoded as JSON.
	Put(ctx context.Context, relation, key string, value any) error
	// Del removes relation/key. Deleting a missing key is not an error.
	Del(ctx context.Context, relation, key string) error
	// Find returns the documents of relation whose top-level fields equal every
	// filter field, ordered by key. A nil filter returns the whole relation.
	Find(ctx context.Context, relation string, filter map[string]any) ([]json.RawMessage, error)
	Close() error
}

var (
	_ Storage = (*Store)(nil)
	_ Storage = (*BadgerStore)(nil)
)

// Store is the in-memory Storage backed by a sharded Engine.
type Store struct {
	engine *Engine
}

func NewStore(engine *Engine) *Store {
	return &Store{engine: engine}
}

// NewMemoryStore creates a Store over a fresh engine with the given shard count.
func NewMemoryStore(shards int) *Store {
	return NewStore(NewEngine(shards))
}

func (store *Store) Get(ctx context.Context, relation, key string) (json.RawMessage, bool, error) {
	if err := checkKey(relation, key); err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	entry, ok := store.engine.Get(relation, key)
	if !ok {
		return nil, false, nil
	}
	return entry.Document(), true, nil
}

func (store *Store) Put(ctx context.Context, relation, key string, value any) error {
	if err := checkKey(relation, key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	doc, err := encode(value)
	if err != nil {
		return err
	}
	store.engine.Put(relation, key, doc)
	return nil
}

func (store *Store) Del(ctx context.Context, relation, key string) error {
	if err := checkKey(relation, key); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	store.engine.Delete(relation, key)
	return nil
}

func (store *Store) Find(ctx context.Context, relation string, filter map[string]any) ([]json.RawMessage, error) {
	if relation == "" {
		return nil, ErrEmptyRelation
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	norm, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	out := make([]json.RawMessage, 0)
	for _, entry := range store.engine.Scan(relation) {
		doc := entry.Document()
		if matches(doc, norm) {
			out = append(out, doc)
		}
	}
	return out, nil
}

func (store *Store) Close() error {
	return nil
}
