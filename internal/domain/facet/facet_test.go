package facet

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/metadex/internal/domain"
	"github.com/kailas-cloud/metadex/internal/domain/doctype"
	"github.com/kailas-cloud/metadex/internal/domain/fieldpath"
)

func TestDefault_CoversAllDocumentTypes(t *testing.T) {
	cfg := Default()
	for _, dt := range doctype.All() {
		if _, err := cfg.Fields(dt); err != nil {
			t.Errorf("Fields(%q): %v", dt, err)
		}
	}
}

func TestDefault_DisplayNameForEveryFacetField(t *testing.T) {
	cfg := Default()
	for _, dt := range doctype.All() {
		fields, err := cfg.Fields(dt)
		if err != nil {
			t.Fatalf("Fields(%q): %v", dt, err)
		}
		for _, f := range fields {
			if _, err := cfg.DisplayName(f); err != nil {
				t.Errorf("DisplayName(%q) for %q: %v", f, dt, err)
			}
		}
	}
}

func TestDefault_DatasetFields(t *testing.T) {
	cfg := Default()
	fields, err := cfg.Fields(doctype.Dataset)
	if err != nil {
		t.Fatalf("Fields(Dataset): %v", err)
	}
	want := []string{
		"type",
		"has_study.type",
		"has_study.ega_accession",
		"has_study.has_project.alias",
	}
	if len(fields) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(fields))
	}
	for i, f := range fields {
		if f.String() != want[i] {
			t.Errorf("fields[%d] = %q, want %q", i, f, want[i])
		}
	}
}

func TestFields_UnknownType(t *testing.T) {
	cfg := New(map[doctype.Type][]string{}, map[string]string{})
	if _, err := cfg.Fields(doctype.Dataset); !errors.Is(err, domain.ErrUnknownDocumentType) {
		t.Errorf("err = %v, want ErrUnknownDocumentType", err)
	}
}

func TestDisplayName_Missing(t *testing.T) {
	cfg := New(
		map[doctype.Type][]string{doctype.Study: {"type"}},
		map[string]string{},
	)
	if _, err := cfg.DisplayName(fieldpath.Parse("type")); !errors.Is(err, domain.ErrFacetConfig) {
		t.Errorf("err = %v, want ErrFacetConfig", err)
	}
}
