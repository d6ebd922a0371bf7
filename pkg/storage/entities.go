package storage

import (
	"encoding/json"
	"sync"
	"time"
)

type Entry struct {
	mu        sync.RWMutex
	Relation  string
	Key       string
	value     json.RawMessage
	UpdatedAt time.Time
}

// Document returns a copy of the stored JSON.
func (e *Entry) Document() json.RawMessage {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append(json.RawMessage(nil), e.value...)
}

func (e *Entry) set(value json.RawMessage, at time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.value = value
	e.UpdatedAt = at
}

type Shard struct {
	mu   sync.RWMutex
	data map[string]*Entry
}

func newShard() *Shard {
	return &Shard{data: make(map[string]*Entry, 128)}
}
