// Package crdt holds the merge primitives behind the resolvers: write
// timestamps, add-wins set union and the multi-value envelope.
package crdt

import (
	"conflict-resolver/pkg/structs"
)

// Union merges two additive snapshots of a set under add-wins semantics.
// Neither snapshot carries removals, so every element seen on either side
// survives. The result is sorted so equal inputs always encode the same way.
func Union(a, b []string) []string {
	return structs.Sorted(structs.NewSet(a...).Union(structs.NewSet(b...)))
}
