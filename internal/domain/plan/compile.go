package plan

import (
	"strings"

	"github.com/kailas-cloud/metadex/internal/domain/fieldpath"
	"github.com/kailas-cloud/metadex/internal/domain/search/filter"
)

// Wildcard matches every document and compiles to no text stage.
const Wildcard = "*"

// The study relation is stored under a local field that differs from its
// spelling in filter and facet paths.
const (
	studyRelation   = "has_study"
	studyLocalField = "study"
)

// Compile translates a search request into an ordered stage sequence.
// Deterministic, no I/O. Facet fields need not be validated here; the
// service resolves them from configuration before compiling.
func Compile(query string, filters []filter.Option, facetFields []fieldpath.Path, skip, limit int) Plan {
	var stages []Stage

	if query != "" && query != Wildcard {
		stages = append(stages, TextMatch{Query: query})
	}

	referenced := referencedPaths(filters, facetFields)
	stages = append(stages, joinStages(referenced)...)

	if len(filters) > 0 {
		stages = append(stages, groupFilters(filters))
	}

	page := Page{Skip: skip, Limit: limit}
	if limit == 0 {
		page = Page{Unbounded: true}
	}
	stages = append(stages, Aggregate{
		Facets: append([]fieldpath.Path(nil), facetFields...),
		Page:   page,
	})

	stages = append(stages, Project{Relations: relationsOf(referenced)})
	return Plan{Stages: stages}
}

// referencedPaths lists every field path a request touches: filter keys
// first (in request order), then facet fields.
func referencedPaths(filters []filter.Option, facetFields []fieldpath.Path) []fieldpath.Path {
	paths := make([]fieldpath.Path, 0, len(filters)+len(facetFields))
	for _, f := range filters {
		paths = append(paths, fieldpath.Parse(f.Key()))
	}
	paths = append(paths, facetFields...)
	return paths
}

// joinStages emits one Join per distinct target collection, in first-seen
// order. A relation referenced by both a filter and a facet joins once.
func joinStages(paths []fieldpath.Path) []Stage {
	var stages []Stage
	seen := make(map[string]struct{})
	for _, p := range paths {
		rel, ok := p.Relation()
		if !ok {
			continue
		}
		from := targetCollection(rel)
		if _, dup := seen[from]; dup {
			continue
		}
		seen[from] = struct{}{}
		stages = append(stages, Join{
			Relation:   rel,
			LocalField: localField(rel),
			From:       from,
		})
	}
	return stages
}

// relationsOf collects the distinct relation segments among paths, in
// first-seen order, for identifier suppression in the projection stage.
func relationsOf(paths []fieldpath.Path) []string {
	var relations []string
	seen := make(map[string]struct{})
	for _, p := range paths {
		rel, ok := p.Relation()
		if !ok {
			continue
		}
		if _, dup := seen[rel]; dup {
			continue
		}
		seen[rel] = struct{}{}
		relations = append(relations, rel)
	}
	return relations
}

// groupFilters folds filter options into one Filter stage: values sharing
// a key are alternatives, distinct keys all must hold. Key order follows
// first appearance in the request.
func groupFilters(filters []filter.Option) Filter {
	index := make(map[string]int)
	var groups []FilterGroup
	for _, f := range filters {
		if i, ok := index[f.Key()]; ok {
			groups[i].Values = append(groups[i].Values, f.Value())
			continue
		}
		index[f.Key()] = len(groups)
		groups = append(groups, FilterGroup{
			Field:  fieldpath.Parse(f.Key()),
			Values: []string{f.Value()},
		})
	}
	return Filter{Groups: groups}
}

// targetCollection derives the joined collection name from a relation
// segment: the prefix is stripped and the remainder converted to the
// store's PascalCase collection naming.
func targetCollection(relation string) string {
	return pascalCase(fieldpath.TrimRelationPrefix(relation))
}

func localField(relation string) string {
	if relation == studyRelation {
		return studyLocalField
	}
	return relation
}

func pascalCase(snake string) string {
	parts := strings.Split(snake, "_")
	var b strings.Builder
	for _, part := range parts {
		if part == "" {
			continue
		}
		b.WriteString(strings.ToUpper(part[:1]))
		b.WriteString(part[1:])
	}
	return b.String()
}
