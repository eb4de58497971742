// Package bundle carries the raw, store-shaped outcome of one executed
// search plan: the ordered identifier page, the total count, and the
// unformatted facet buckets.
package bundle

import "github.com/kailas-cloud/metadex/internal/domain/fieldpath"

// Kind discriminates the shapes a facet group value arrives in.
type Kind int

const (
	// KindNull is a null or absent group value.
	KindNull Kind = iota
	// KindScalar is a plain string group value.
	KindScalar
	// KindList is a multi-valued group value.
	KindList
)

// Value is a facet group value exactly as the store emitted it.
type Value struct {
	kind   Kind
	scalar string
	list   []string
}

// NewNull returns the null group value.
func NewNull() Value {
	return Value{kind: KindNull}
}

// NewScalar wraps a plain string group value.
func NewScalar(s string) Value {
	return Value{kind: KindScalar, scalar: s}
}

// NewList wraps a multi-valued group value.
func NewList(items ...string) Value {
	return Value{kind: KindList, list: append([]string(nil), items...)}
}

// Kind returns the value shape.
func (v Value) Kind() Kind { return v.kind }

// Scalar returns the scalar form; meaningful only for KindScalar.
func (v Value) Scalar() string { return v.scalar }

// List returns the list form; meaningful only for KindList.
func (v Value) List() []string {
	return append([]string(nil), v.list...)
}

// Entry is one group value and the number of documents carrying it.
type Entry struct {
	value Value
	count int
}

// NewEntry creates a bucket entry.
func NewEntry(value Value, count int) Entry {
	return Entry{value: value, count: count}
}

// Value returns the group value.
func (e Entry) Value() Value { return e.value }

// Count returns the document count.
func (e Entry) Count() int { return e.count }

// Bucket is the raw facet output for one field, in store emission order.
type Bucket struct {
	field   fieldpath.Path
	entries []Entry
}

// NewBucket creates a facet bucket.
func NewBucket(field fieldpath.Path, entries []Entry) Bucket {
	return Bucket{field: field, entries: append([]Entry(nil), entries...)}
}

// Field returns the facet field the bucket groups on.
func (b Bucket) Field() fieldpath.Path { return b.field }

// Entries returns the bucket entries in store order.
func (b Bucket) Entries() []Entry {
	return append([]Entry(nil), b.entries...)
}

// Bundle is everything one plan execution returns.
type Bundle struct {
	count   int
	ids     []string
	buckets []Bucket
}

// New creates a result bundle.
func New(count int, ids []string, buckets []Bucket) Bundle {
	return Bundle{
		count:   count,
		ids:     append([]string(nil), ids...),
		buckets: append([]Bucket(nil), buckets...),
	}
}

// Count is the total number of matching documents; 0 when the count
// sub-pipeline emitted no row.
func (b Bundle) Count() int { return b.count }

// IDs returns the identifier page, sorted ascending by store identifier.
func (b Bundle) IDs() []string {
	return append([]string(nil), b.ids...)
}

// Buckets returns the raw facet buckets in pipeline order.
func (b Bundle) Buckets() []Bucket {
	return append([]Bucket(nil), b.buckets...)
}
