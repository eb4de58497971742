// Package fieldpath models dot-delimited document field paths and the
// convention that distinguishes local fields from relations.
package fieldpath

import "strings"

const relationPrefix = "has_"

// inlineHeads lists fields that carry the relation prefix but hold inline
// values rather than references into another collection.
var inlineHeads = map[string]struct{}{
	"has_attribute": {},
}

// Path is an ordered sequence of field name segments.
type Path struct {
	segments []string
}

// Parse splits a dotted field path into its segments.
func Parse(s string) Path {
	return Path{segments: strings.Split(s, ".")}
}

// New builds a path from explicit segments.
func New(segments ...string) Path {
	return Path{segments: append([]string(nil), segments...)}
}

// String returns the dotted form of the path.
func (p Path) String() string {
	return strings.Join(p.segments, ".")
}

// Segments returns a copy of the path segments.
func (p Path) Segments() []string {
	return append([]string(nil), p.segments...)
}

// Head returns the first segment.
func (p Path) Head() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[0]
}

// IsNested reports whether the path has more than one segment.
func (p Path) IsNested() bool {
	return len(p.segments) > 1
}

// Relation returns the relation segment when the path traverses a
// reference into another collection: the path must be nested and its head
// must carry the relation prefix, excluding the known inline exceptions.
func (p Path) Relation() (string, bool) {
	if !p.IsNested() {
		return "", false
	}
	head := p.segments[0]
	if !strings.HasPrefix(head, relationPrefix) {
		return "", false
	}
	if _, inline := inlineHeads[head]; inline {
		return "", false
	}
	return head, true
}

// TrimRelationPrefix strips the relation prefix from a relation segment.
func TrimRelationPrefix(relation string) string {
	return strings.TrimPrefix(relation, relationPrefix)
}
