// Package facet holds the static facet configuration: which fields are
// facet-eligible per document type, and how facet keys are displayed.
package facet

import (
	"fmt"

	"github.com/kailas-cloud/metadex/internal/domain"
	"github.com/kailas-cloud/metadex/internal/domain/doctype"
	"github.com/kailas-cloud/metadex/internal/domain/fieldpath"
)

// Config is an immutable facet configuration, built once at startup and
// safe for unsynchronized concurrent reads.
type Config struct {
	fields map[doctype.Type][]fieldpath.Path
	names  map[string]string
}

// New builds a configuration from per-type facet field lists and a display
// name table keyed by dotted field path. Both maps are copied.
func New(fields map[doctype.Type][]string, names map[string]string) Config {
	byType := make(map[doctype.Type][]fieldpath.Path, len(fields))
	for dt, paths := range fields {
		parsed := make([]fieldpath.Path, 0, len(paths))
		for _, p := range paths {
			parsed = append(parsed, fieldpath.Parse(p))
		}
		byType[dt] = parsed
	}
	byPath := make(map[string]string, len(names))
	for k, v := range names {
		byPath[k] = v
	}
	return Config{fields: byType, names: byPath}
}

// Default returns the facet configuration shipped with the service.
// Every document type is present; a display name exists for every field
// any type can produce.
func Default() Config {
	return New(
		map[doctype.Type][]string{
			doctype.Dataset: {
				"type",
				"has_study.type",
				"has_study.ega_accession",
				"has_study.has_project.alias",
			},
			doctype.Project:     {"alias"},
			doctype.Study:       {"type"},
			doctype.Experiment:  {"type"},
			doctype.Sample:      {},
			doctype.Biospecimen: {"has_phenotypic_feature.concept_name"},
			doctype.Individual:  {"sex", "has_phenotypic_feature.concept_name"},
			doctype.Publication: {},
			doctype.File:        {"format"},
		},
		map[string]string{
			"type":                                "Dataset Type",
			"has_study.type":                      "Study Type",
			"has_study.ega_accession":             "Study ID",
			"has_study.has_project.alias":         "Project",
			"alias":                               "Alias",
			"format":                              "File Format",
			"sex":                                 "Sex",
			"has_phenotypic_feature.concept_name": "Phenotypic Feature",
		},
	)
}

// Fields returns the facet-eligible field paths for a document type. A
// type absent from the configuration is a configuration error, not a
// runtime data error.
func (c Config) Fields(dt doctype.Type) ([]fieldpath.Path, error) {
	paths, ok := c.fields[dt]
	if !ok {
		return nil, fmt.Errorf("no facet fields configured for %q: %w", dt, domain.ErrUnknownDocumentType)
	}
	return append([]fieldpath.Path(nil), paths...), nil
}

// DisplayName resolves the human-readable name for a facet field. A
// missing name means the display table is out of sync with the per-type
// defaults and fails the whole request.
func (c Config) DisplayName(p fieldpath.Path) (string, error) {
	name, ok := c.names[p.String()]
	if !ok {
		return "", fmt.Errorf("no display name for facet %q: %w", p, domain.ErrFacetConfig)
	}
	return name, nil
}
