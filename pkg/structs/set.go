package structs

import (
	"iter"
	"sort"

	"golang.org/x/exp/constraints"
)

type empty = struct{}

// Set is a set of comparable values.
type Set[T comparable] map[T]empty

// NewSet builds a set holding values.
func NewSet[T comparable](values ...T) Set[T] {
	res := make(Set[T], len(values))
	for _, v := range values {
		res[v] = empty{}
	}
	return res
}

func (s Set[T]) Add(values ...T) {
	for _, v := range values {
		s[v] = empty{}
	}
}

func (s Set[T]) Remove(value T) {
	delete(s, value)
}

func (s Set[T]) Contains(value T) bool {
	_, exists := s[value]
	return exists
}

func (s Set[T]) Size() int {
	return len(s)
}

// Slice returns the elements in map order.
func (s Set[T]) Slice() []T {
	values := make([]T, 0, len(s))
	for v := range s {
		values = append(values, v)
	}
	return values
}

func (s Set[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for v := range s {
			if !yield(v) {
				return
			}
		}
	}
}

func (s Set[T]) Clone() Set[T] {
	clone := make(Set[T], len(s))
	for v := range s {
		clone[v] = empty{}
	}
	return clone
}

// Union returns a new set with the elements of both.
func (s Set[T]) Union(other Set[T]) Set[T] {
	result := s.Clone()
	for v := range other {
		result[v] = empty{}
	}
	return result
}

// Difference returns the elements of s missing from other.
func (s Set[T]) Difference(other Set[T]) Set[T] {
	result := NewSet[T]()
	for v := range s {
		if _, ok := other[v]; !ok {
			result[v] = empty{}
		}
	}
	return result
}

func (s Set[T]) Equal(other Set[T]) bool {
	if len(s) != len(other) {
		return false
	}
	for v := range s {
		if _, ok := other[v]; !ok {
			return false
		}
	}
	return true
}

// Sorted returns the elements of s in ascending order.
func Sorted[T constraints.Ordered](s Set[T]) []T {
	values := s.Slice()
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	return values
}
