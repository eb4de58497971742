package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kailas-cloud/metadex/internal/domain/facet"
	"github.com/kailas-cloud/metadex/internal/domain/search/bundle"
	"github.com/kailas-cloud/metadex/internal/domain/search/result"
)

// nullOption is how a null group value reads in the response.
const nullOption = "None"

// reshapeFacets converts raw store buckets into response facets: display
// names resolved, group values normalized, options sorted by count
// descending. The sort is stable so ties keep the store's native order.
func reshapeFacets(cfg facet.Config, buckets []bundle.Bucket) ([]result.Facet, error) {
	facets := make([]result.Facet, 0, len(buckets))
	for _, b := range buckets {
		name, err := cfg.DisplayName(b.Field())
		if err != nil {
			return nil, fmt.Errorf("reshape facet %q: %w", b.Field(), err)
		}

		entries := b.Entries()
		options := make([]result.FacetOption, 0, len(entries))
		for _, e := range entries {
			options = append(options, result.FacetOption{
				Option: normalizeGroupValue(e.Value()),
				Count:  e.Count(),
			})
		}
		sort.SliceStable(options, func(i, j int) bool {
			return options[i].Count > options[j].Count
		})

		facets = append(facets, result.Facet{
			Key:     b.Field().String(),
			Name:    name,
			Options: options,
		})
	}
	return facets, nil
}

// normalizeGroupValue renders a group value for display: null reads
// "None", a one-element list collapses to the bare element, a longer
// list joins its elements.
func normalizeGroupValue(v bundle.Value) string {
	switch v.Kind() {
	case bundle.KindNull:
		return nullOption
	case bundle.KindList:
		items := v.List()
		if len(items) == 1 {
			return items[0]
		}
		return strings.Join(items, ", ")
	default:
		return v.Scalar()
	}
}
