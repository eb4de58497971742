// Package result defines the search response returned to callers.
package result

import "github.com/kailas-cloud/metadex/internal/domain/doctype"

// FacetOption pairs one facet value with its document count.
type FacetOption struct {
	Option string
	Count  int
}

// Facet summarizes the distinct values of one field across all matches,
// sorted by count descending.
type Facet struct {
	Key     string
	Name    string
	Options []FacetOption
}

// Hit is one matching document with its full record content, sans
// store-internal identifier.
type Hit struct {
	DocumentType doctype.Type
	ID           string
	Content      map[string]any
}

// Result is a complete search response. Hits follow the page's sort
// order; Facets is empty (never nil) when faceting was skipped.
type Result struct {
	Facets []Facet
	Count  int
	Hits   []Hit
}
