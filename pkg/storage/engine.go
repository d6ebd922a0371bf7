package storage

import (
	"encoding/json"
	"log/slog"
	"math/bits"
	"slices"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// scaleThreshold is the keys-per-shard count past which the shard table doubles.
const scaleThreshold = 100_000

const keySeparator = "\x00"

// Engine is a sharded in-memory map of JSON documents keyed by relation and key.
type Engine struct {
	shards    atomic.Pointer[[]*Shard]
	numShards atomic.Uint32
	// growthLock is held for writing only while shards are rebalanced.
	growthLock sync.RWMutex
	scaling    atomic.Bool
	now        func() time.Time
	countKeys  atomic.Int64
}

func NewEngine(initialShards int) *Engine {
	if initialShards <= 0 {
		initialShards = 64
	}
	n := roundShards(initialShards)
	e := &Engine{now: time.Now}
	shards := newShards(n)
	e.shards.Store(&shards)
	e.numShards.Store(n)
	return e
}

// newShards allocates every slot up front; slots are never written after the
// table is published.
func newShards(n uint32) []*Shard {
	arr := make([]*Shard, n)
	for i := range arr {
		arr[i] = newShard()
	}
	return arr
}

// roundShards rounds n up to a power of two so a shard index is a mask.
func roundShards(n int) uint32 {
	if n <= 1 {
		return 1
	}
	return 1 << bits.Len32(uint32(n-1))
}

func compositeKey(relation, key string) string {
	return relation + keySeparator + key
}

func (e *Engine) Get(relation, key string) (*Entry, bool) {
	e.growthLock.RLock()
	defer e.growthLock.RUnlock()

	shard := e.shardFor(compositeKey(relation, key))
	shard.mu.RLock()
	entry, ok := shard.data[compositeKey(relation, key)]
	shard.mu.RUnlock()
	return entry, ok
}

func (e *Engine) Put(relation, key string, doc json.RawMessage) {
	e.growthLock.RLock()
	defer e.growthLock.RUnlock()

	ck := compositeKey(relation, key)
	shard := e.shardFor(ck)

	shard.mu.Lock()
	entry, ok := shard.data[ck]
	if !ok {
		entry = &Entry{Relation: relation, Key: key}
		shard.data[ck] = entry
		e.countKeys.Add(1)
	}
	shard.mu.Unlock()

	entry.set(doc, e.now())
	e.maybeScale()
}

func (e *Engine) Delete(relation, key string) {
	e.growthLock.RLock()
	defer e.growthLock.RUnlock()

	ck := compositeKey(relation, key)
	shard := e.shardFor(ck)
	shard.mu.Lock()
	defer shard.mu.Unlock()

	if _, ok := shard.data[ck]; ok {
		delete(shard.data, ck)
		e.countKeys.Add(-1)
	}
}

// Scan returns every entry of relation ordered by key.
func (e *Engine) Scan(relation string) []*Entry {
	e.growthLock.RLock()
	defer e.growthLock.RUnlock()

	prefix := relation + keySeparator
	var out []*Entry
	for _, shard := range *e.shards.Load() {
		shard.mu.RLock()
		for k, v := range shard.data {
			if strings.HasPrefix(k, prefix) {
				out = append(out, v)
			}
		}
		shard.mu.RUnlock()
	}

	slices.SortFunc(out, func(a, b *Entry) int {
		return strings.Compare(a.Key, b.Key)
	})
	return out
}

func (e *Engine) Len() int {
	return int(e.countKeys.Load())
}

func (e *Engine) Shards() int {
	return int(e.numShards.Load())
}

// shardFor must be called with growthLock held for reading.
func (e *Engine) shardFor(key string) *Shard {
	arr := *e.shards.Load()
	return arr[hashKey(key)&uint32(len(arr)-1)]
}

func (e *Engine) maybeScale() {
	total := e.countKeys.Load()
	nShards := int64(e.numShards.Load())

	if total/nShards > scaleThreshold && e.scaling.CompareAndSwap(false, true) {
		go e.growShards()
	}
}

func (e *Engine) growShards() {
	defer e.scaling.Store(false)

	e.growthLock.Lock()
	defer e.growthLock.Unlock()

	current := e.numShards.Load()
	if total := e.countKeys.Load(); total/int64(current) < scaleThreshold {
		return // already grown
	}

	newCount := current * 2
	oldArr := *e.shards.Load()
	newArr := newShards(newCount)

	// rehash every entry into the wider table
	for _, old := range oldArr {
		for k, v := range old.data {
			newArr[hashKey(k)&(newCount-1)].data[k] = v
		}
	}

	e.shards.Store(&newArr)
	e.numShards.Store(newCount)
	slog.Info("[store] scaled shards", slog.Int("shards", int(newCount)))
}
