// Package plan models the ordered, store-agnostic stage sequence compiled
// from a search request, and the compiler that produces it.
package plan

import "github.com/kailas-cloud/metadex/internal/domain/fieldpath"

// Stage is one step of a compiled plan. The variant set is closed; the
// store encoder switches over it exhaustively.
type Stage interface {
	stage()
}

// TextMatch restricts the working set to documents matching a full-text
// query. Relevance ranking is the store's concern.
type TextMatch struct {
	Query string
}

// Join resolves a relation by joining the target collection on its
// identifier field, embedding matches under the local field name.
type Join struct {
	Relation   string // relation segment as spelled in field paths
	LocalField string // field on the source document holding the reference
	From       string // target collection
}

// FilterGroup is the set of admitted values for one filter key. Values
// within a group are alternatives (OR).
type FilterGroup struct {
	Field  fieldpath.Path
	Values []string
}

// Filter narrows the working set by equality on one or more fields.
// Distinct groups must all match (AND).
type Filter struct {
	Groups []FilterGroup
}

// Page bounds the identifier page. An unbounded page carries no skip or
// limit and returns every match, still sorted ascending by identifier.
type Page struct {
	Skip      int
	Limit     int
	Unbounded bool
}

// Aggregate evaluates the per-facet groupings, the total count, and the
// identifier page concurrently against the same filtered document set.
type Aggregate struct {
	Facets []fieldpath.Path
	Page   Page
}

// Project suppresses store-internal identifiers from the output: the
// top-level one, plus the joined sub-document one per touched relation.
type Project struct {
	Relations []string
}

func (TextMatch) stage() {}
func (Join) stage()      {}
func (Filter) stage()    {}
func (Aggregate) stage() {}
func (Project) stage()   {}

// Plan is the ordered stage sequence for one search request.
type Plan struct {
	Stages []Stage
}
