package plan

import (
	"reflect"
	"testing"

	"github.com/kailas-cloud/metadex/internal/domain/fieldpath"
	"github.com/kailas-cloud/metadex/internal/domain/search/filter"
)

func paths(ss ...string) []fieldpath.Path {
	out := make([]fieldpath.Path, 0, len(ss))
	for _, s := range ss {
		out = append(out, fieldpath.Parse(s))
	}
	return out
}

func TestCompile_WildcardEmitsNoTextStage(t *testing.T) {
	for _, q := range []string{"", Wildcard} {
		p := Compile(q, nil, nil, 0, 10)
		if _, ok := p.Stages[0].(TextMatch); ok {
			t.Errorf("query %q: unexpected TextMatch stage", q)
		}
	}
}

func TestCompile_TextMatchFirst(t *testing.T) {
	p := Compile("cancer", []filter.Option{filter.New("type", "A")}, nil, 0, 10)
	tm, ok := p.Stages[0].(TextMatch)
	if !ok {
		t.Fatalf("first stage is %T, want TextMatch", p.Stages[0])
	}
	if tm.Query != "cancer" {
		t.Errorf("Query = %q", tm.Query)
	}
}

func TestCompile_FullPlanSnapshot(t *testing.T) {
	got := Compile(
		"rna",
		[]filter.Option{
			filter.New("type", "Exome sequencing"),
			filter.New("has_study.type", "cancer_genomics"),
		},
		paths("type", "has_study.ega_accession"),
		5, 20,
	)

	want := Plan{Stages: []Stage{
		TextMatch{Query: "rna"},
		Join{Relation: "has_study", LocalField: "study", From: "Study"},
		Filter{Groups: []FilterGroup{
			{Field: fieldpath.Parse("type"), Values: []string{"Exome sequencing"}},
			{Field: fieldpath.Parse("has_study.type"), Values: []string{"cancer_genomics"}},
		}},
		Aggregate{
			Facets: paths("type", "has_study.ega_accession"),
			Page:   Page{Skip: 5, Limit: 20},
		},
		Project{Relations: []string{"has_study"}},
	}}

	if !reflect.DeepEqual(got, want) {
		t.Errorf("Compile() =\n%#v\nwant\n%#v", got, want)
	}
}

func TestCompile_JoinDeduplication(t *testing.T) {
	// Filtering and faceting on the same relation joins its collection once.
	p := Compile(Wildcard,
		[]filter.Option{filter.New("has_study.type", "cancer_genomics")},
		paths("has_study.ega_accession"),
		0, 10,
	)

	var joins []Join
	for _, st := range p.Stages {
		if j, ok := st.(Join); ok {
			joins = append(joins, j)
		}
	}
	if len(joins) != 1 {
		t.Fatalf("expected exactly one join, got %d: %v", len(joins), joins)
	}
	want := Join{Relation: "has_study", LocalField: "study", From: "Study"}
	if joins[0] != want {
		t.Errorf("join = %+v, want %+v", joins[0], want)
	}
}

func TestCompile_DeepRelationPathJoinsHeadOnly(t *testing.T) {
	// has_study.has_project.alias traverses the study relation; only the
	// head segment determines the join.
	p := Compile(Wildcard,
		[]filter.Option{
			filter.New("type", "A"),
			filter.New("has_study.type", "B"),
			filter.New("has_study.has_project.alias", "C"),
		},
		nil, 0, 10,
	)

	var joins []Join
	for _, st := range p.Stages {
		if j, ok := st.(Join); ok {
			joins = append(joins, j)
		}
	}
	if len(joins) != 1 {
		t.Fatalf("expected one join, got %d: %v", len(joins), joins)
	}
	if joins[0].From != "Study" {
		t.Errorf("join target = %q, want Study", joins[0].From)
	}
}

func TestCompile_MultipleRelations(t *testing.T) {
	p := Compile(Wildcard,
		[]filter.Option{filter.New("has_phenotypic_feature.concept_name", "fever")},
		paths("has_study.type"),
		0, 10,
	)

	var joins []Join
	for _, st := range p.Stages {
		if j, ok := st.(Join); ok {
			joins = append(joins, j)
		}
	}
	want := []Join{
		{Relation: "has_phenotypic_feature", LocalField: "has_phenotypic_feature", From: "PhenotypicFeature"},
		{Relation: "has_study", LocalField: "study", From: "Study"},
	}
	if !reflect.DeepEqual(joins, want) {
		t.Errorf("joins = %+v, want %+v", joins, want)
	}
}

func TestCompile_FilterGrouping(t *testing.T) {
	// Repeated keys OR together; distinct keys stay separate groups.
	p := Compile(Wildcard,
		[]filter.Option{
			filter.New("type", "A"),
			filter.New("has_study.type", "X"),
			filter.New("type", "B"),
		},
		nil, 0, 10,
	)

	var f Filter
	found := false
	for _, st := range p.Stages {
		if fs, ok := st.(Filter); ok {
			f, found = fs, true
		}
	}
	if !found {
		t.Fatal("no Filter stage")
	}
	want := []FilterGroup{
		{Field: fieldpath.Parse("type"), Values: []string{"A", "B"}},
		{Field: fieldpath.Parse("has_study.type"), Values: []string{"X"}},
	}
	if !reflect.DeepEqual(f.Groups, want) {
		t.Errorf("groups = %+v, want %+v", f.Groups, want)
	}
}

func TestCompile_NoFiltersNoFilterStage(t *testing.T) {
	p := Compile(Wildcard, nil, paths("type"), 0, 10)
	for _, st := range p.Stages {
		if _, ok := st.(Filter); ok {
			t.Fatal("unexpected Filter stage")
		}
	}
}

func TestCompile_DottedLocalFieldFiltersWithoutJoin(t *testing.T) {
	// A dotted key whose head is not a relation is filtered as a bare
	// field: no join, no projection entry.
	p := Compile(Wildcard,
		[]filter.Option{filter.New("metadata.origin", "internal")},
		nil, 0, 10,
	)

	for _, st := range p.Stages {
		if _, ok := st.(Join); ok {
			t.Fatal("unexpected Join stage")
		}
	}

	var f Filter
	for _, st := range p.Stages {
		if fs, ok := st.(Filter); ok {
			f = fs
		}
	}
	if len(f.Groups) != 1 || f.Groups[0].Field.String() != "metadata.origin" {
		t.Errorf("filter groups = %+v", f.Groups)
	}

	proj := p.Stages[len(p.Stages)-1].(Project)
	if len(proj.Relations) != 0 {
		t.Errorf("projection relations = %v, want none", proj.Relations)
	}
}

func TestCompile_InlineExceptionFieldNeverJoins(t *testing.T) {
	p := Compile(Wildcard,
		[]filter.Option{filter.New("has_attribute.name", "age")},
		nil, 0, 10,
	)
	for _, st := range p.Stages {
		if _, ok := st.(Join); ok {
			t.Fatal("has_attribute must not trigger a join")
		}
	}
}

func TestCompile_UnboundedPage(t *testing.T) {
	p := Compile(Wildcard, nil, nil, 7, 0)
	var agg Aggregate
	for _, st := range p.Stages {
		if a, ok := st.(Aggregate); ok {
			agg = a
		}
	}
	if !agg.Page.Unbounded {
		t.Fatal("limit 0 must compile to an unbounded page")
	}
	if agg.Page.Skip != 0 || agg.Page.Limit != 0 {
		t.Errorf("unbounded page carries bounds: %+v", agg.Page)
	}
}

func TestCompile_ProjectAlwaysLast(t *testing.T) {
	p := Compile("q", []filter.Option{filter.New("has_study.type", "x")}, paths("type"), 0, 10)
	if _, ok := p.Stages[len(p.Stages)-1].(Project); !ok {
		t.Fatalf("last stage is %T, want Project", p.Stages[len(p.Stages)-1])
	}
}

func TestTargetCollection(t *testing.T) {
	tests := []struct{ relation, want string }{
		{"has_study", "Study"},
		{"has_project", "Project"},
		{"has_phenotypic_feature", "PhenotypicFeature"},
	}
	for _, tt := range tests {
		if got := targetCollection(tt.relation); got != tt.want {
			t.Errorf("targetCollection(%q) = %q, want %q", tt.relation, got, tt.want)
		}
	}
}
