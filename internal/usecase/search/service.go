// Package search orchestrates faceted search: compile the plan, execute
// it, fetch the hit contents, reshape the facets.
package search

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/metadex/internal/domain/doctype"
	"github.com/kailas-cloud/metadex/internal/domain/facet"
	"github.com/kailas-cloud/metadex/internal/domain/plan"
	"github.com/kailas-cloud/metadex/internal/domain/search/filter"
	"github.com/kailas-cloud/metadex/internal/domain/search/result"
)

// Service is the single entry point for search calls. It owns the I/O
// sequencing; compilation and reshaping stay pure.
type Service struct {
	repo   Repository
	facets facet.Config
}

// New creates a search service.
func New(repo Repository, facets facet.Config) *Service {
	return &Service{repo: repo, facets: facets}
}

// Search answers one faceted search request. Facet fields come from the
// static configuration; callers only toggle whether facets are computed.
// A search either fully succeeds or fully fails.
func (s *Service) Search(
	ctx context.Context,
	documentType doctype.Type,
	query string,
	filters []filter.Option,
	returnFacets bool,
	skip, limit int,
) (result.Result, error) {
	facetFields, err := s.facets.Fields(documentType)
	if err != nil {
		return result.Result{}, fmt.Errorf("resolve facet fields: %w", err)
	}

	p := plan.Compile(query, filters, facetFields, skip, limit)

	b, err := s.repo.ExecutePlan(ctx, documentType, p)
	if err != nil {
		return result.Result{}, fmt.Errorf("search %s: %w", documentType, err)
	}

	// Fetch full content per id, sequentially, preserving page order.
	hits := make([]result.Hit, 0, len(b.IDs()))
	for _, id := range b.IDs() {
		content, err := s.repo.FetchDocument(ctx, documentType, id)
		if err != nil {
			return result.Result{}, fmt.Errorf("fetch hit %q: %w", id, err)
		}
		hits = append(hits, result.Hit{DocumentType: documentType, ID: id, Content: content})
	}

	facets := []result.Facet{}
	if returnFacets && len(b.Buckets()) > 0 {
		facets, err = reshapeFacets(s.facets, b.Buckets())
		if err != nil {
			return result.Result{}, err
		}
	}

	return result.Result{Facets: facets, Count: b.Count(), Hits: hits}, nil
}
