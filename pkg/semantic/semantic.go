// Package semantic implements a line-oriented three-way merge.
//
// Lines are aligned strictly by index: a line missing on a shorter side is
// compared as the empty string. This is only correct for structurally aligned
// edits; inserted or deleted lines shift every following position.
package semantic

import (
	"fmt"
	"strings"

	"conflict-resolver/pkg/codec"
)

const (
	Name     = "semantic-merge"
	Category = "merge"

	markerOurs   = "<<<<<<< ours"
	markerSep    = "======="
	markerTheirs = ">>>>>>> theirs"
)

var contentTypes = []string{"text/plain", "application/json", "text/yaml"}

type Descriptor struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	ContentTypes []string `json:"content_types"`
}

// Result is one of Clean, Conflicts or UnsupportedContent.
type Result interface {
	isResult()
}

type Clean struct {
	Result []byte
}

type Conflicts struct {
	Regions [][]byte
}

type UnsupportedContent struct {
	Message string
}

func (Clean) isResult()              {}
func (Conflicts) isResult()          {}
func (UnsupportedContent) isResult() {}

type Merger struct{}

func New() *Merger {
	return &Merger{}
}

// Register publishes the content types callers may route to this merger.
func (m *Merger) Register() Descriptor {
	return Descriptor{
		Name:         Name,
		Category:     Category,
		ContentTypes: append([]string(nil), contentTypes...),
	}
}

func (m *Merger) Execute(base, ours, theirs []byte) Result {
	return Merge(base, ours, theirs)
}

// Merge merges ours and theirs against base.
func Merge(base, ours, theirs []byte) Result {
	baseLines, errB := codec.Lines(base)
	oursLines, errO := codec.Lines(ours)
	theirsLines, errT := codec.Lines(theirs)
	if errB != nil || errO != nil || errT != nil {
		return UnsupportedContent{Message: "content is not valid UTF-8 text"}
	}

	n := max(len(baseLines), len(oursLines), len(theirsLines))
	merged := make([]string, 0, n)
	var regions [][]byte

	for i := 0; i < n; i++ {
		b := lineAt(baseLines, i)
		o := lineAt(oursLines, i)
		t := lineAt(theirsLines, i)

		switch {
		case o == t:
			merged = append(merged, o)
		case o == b:
			merged = append(merged, t)
		case t == b:
			merged = append(merged, o)
		default:
			regions = append(regions, conflictRegion(o, t))
			merged = append(merged, o)
		}
	}

	if len(regions) > 0 {
		return Conflicts{Regions: regions}
	}
	return Clean{Result: []byte(strings.Join(merged, "\n"))}
}

func conflictRegion(ours, theirs string) []byte {
	return []byte(fmt.Sprintf("%s\n%s\n%s\n%s\n%s", markerOurs, ours, markerSep, theirs, markerTheirs))
}

func lineAt(lines []string, i int) string {
	if i < len(lines) {
		return lines[i]
	}
	return ""
}
