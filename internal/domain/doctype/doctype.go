// Package doctype enumerates the record types held in the metadata store.
package doctype

import (
	"fmt"

	"github.com/kailas-cloud/metadex/internal/domain"
)

// Type is a metadata record type. Its value doubles as the name of the
// primary collection holding full records of that type.
type Type string

const (
	// Dataset groups files released together under one access policy.
	Dataset Type = "Dataset"
	// Project is a research project a study belongs to.
	Project Type = "Project"
	// Study is an investigation that produced datasets.
	Study Type = "Study"
	// Experiment is a data-generating procedure within a study.
	Experiment Type = "Experiment"
	// Sample is a material sample an experiment was run on.
	Sample Type = "Sample"
	// Biospecimen is the biological specimen a sample derives from.
	Biospecimen Type = "Biospecimen"
	// Individual is the donor a biospecimen was taken from.
	Individual Type = "Individual"
	// Publication is a publication associated with a study.
	Publication Type = "Publication"
	// File is a single data file within a dataset.
	File Type = "File"
)

var known = map[Type]struct{}{
	Dataset:     {},
	Project:     {},
	Study:       {},
	Experiment:  {},
	Sample:      {},
	Biospecimen: {},
	Individual:  {},
	Publication: {},
	File:        {},
}

// All returns every known document type in a stable order.
func All() []Type {
	return []Type{
		Dataset, Project, Study, Experiment, Sample,
		Biospecimen, Individual, Publication, File,
	}
}

// Parse validates a document type name.
func Parse(s string) (Type, error) {
	t := Type(s)
	if _, ok := known[t]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrUnknownDocumentType, s)
	}
	return t, nil
}

// Collection returns the primary collection holding full records.
func (t Type) Collection() string {
	return string(t)
}
