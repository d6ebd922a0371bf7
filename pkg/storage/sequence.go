package storage

import (
	"strconv"
	"sync"
	"sync/atomic"
)

// Sequencer hands out monotonically increasing per-relation identifiers of
// the form "<relation>-<n>", starting at 1.
type Sequencer struct {
	mutex sync.RWMutex
	seq   map[string]*atomic.Int64
}

func NewSequencer() *Sequencer {
	return &Sequencer{seq: make(map[string]*atomic.Int64)}
}

func (s *Sequencer) Next(relation string) string {
	return relation + "-" + strconv.FormatInt(s.counter(relation).Add(1), 10)
}

// Current returns the last number issued for relation, 0 if none.
func (s *Sequencer) Current(relation string) int64 {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	if c, ok := s.seq[relation]; ok {
		return c.Load()
	}
	return 0
}

func (s *Sequencer) counter(relation string) *atomic.Int64 {
	s.mutex.RLock()
	c, ok := s.seq[relation]
	s.mutex.RUnlock()
	if ok {
		return c
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()
	// double-checked
	if c, ok = s.seq[relation]; !ok {
		c = new(atomic.Int64)
		s.seq[relation] = c
	}
	return c
}
