package search

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kailas-cloud/metadex/internal/domain"
	"github.com/kailas-cloud/metadex/internal/domain/doctype"
	"github.com/kailas-cloud/metadex/internal/domain/plan"
	"github.com/kailas-cloud/metadex/internal/domain/search/bundle"
)

func TestExecutePlan_DatasetRedirectsToEmbeddedView(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms)

	if _, err := repo.ExecutePlan(context.Background(), doctype.Dataset, plan.Plan{}); err != nil {
		t.Fatalf("ExecutePlan: %v", err)
	}
	if ms.lastCollection != "DatasetEmbedded" {
		t.Errorf("aggregated on %q, want DatasetEmbedded", ms.lastCollection)
	}

	if _, err := repo.ExecutePlan(context.Background(), doctype.Study, plan.Plan{}); err != nil {
		t.Fatalf("ExecutePlan: %v", err)
	}
	if ms.lastCollection != "Study" {
		t.Errorf("aggregated on %q, want Study", ms.lastCollection)
	}
}

func TestExecutePlan_ParsesBundle(t *testing.T) {
	row := bson.D{
		{Key: "type", Value: bson.A{
			bucketEntry("Exome sequencing", 2),
			bucketEntry(nil, 1),
		}},
		{Key: "has_study__type", Value: bson.A{
			bucketEntry(bson.A{"cancer_genomics"}, 3),
			bucketEntry(bson.A{"a", "b"}, 1),
		}},
		{Key: "metadata", Value: bson.A{
			bson.D{{Key: "total", Value: int32(3)}},
		}},
		{Key: "data", Value: bson.A{
			pageEntry("DAT-1"), pageEntry("DAT-2"), pageEntry("DAT-3"),
		}},
	}
	ms := &mockStore{
		aggregateFn: func(context.Context, string, mongo.Pipeline) ([]bson.D, error) {
			return []bson.D{row}, nil
		},
	}
	repo := New(ms)

	b, err := repo.ExecutePlan(context.Background(), doctype.Dataset, plan.Plan{})
	if err != nil {
		t.Fatalf("ExecutePlan: %v", err)
	}

	if b.Count() != 3 {
		t.Errorf("Count() = %d, want 3", b.Count())
	}
	if got := b.IDs(); !reflect.DeepEqual(got, []string{"DAT-1", "DAT-2", "DAT-3"}) {
		t.Errorf("IDs() = %v", got)
	}

	buckets := b.Buckets()
	if len(buckets) != 2 {
		t.Fatalf("expected 2 buckets, got %d", len(buckets))
	}
	if buckets[0].Field().String() != "type" {
		t.Errorf("bucket 0 field = %q", buckets[0].Field())
	}
	if buckets[1].Field().String() != "has_study.type" {
		t.Errorf("bucket 1 field = %q, want unflattened path", buckets[1].Field())
	}

	entries := buckets[0].Entries()
	if entries[0].Value().Kind() != bundle.KindScalar || entries[0].Value().Scalar() != "Exome sequencing" {
		t.Errorf("entry 0 value = %+v", entries[0].Value())
	}
	if entries[0].Count() != 2 {
		t.Errorf("entry 0 count = %d", entries[0].Count())
	}
	if entries[1].Value().Kind() != bundle.KindNull {
		t.Errorf("entry 1 should be null, got %+v", entries[1].Value())
	}

	listEntries := buckets[1].Entries()
	if listEntries[0].Value().Kind() != bundle.KindList {
		t.Fatalf("expected list group value, got %+v", listEntries[0].Value())
	}
	if got := listEntries[0].Value().List(); !reflect.DeepEqual(got, []string{"cancer_genomics"}) {
		t.Errorf("list value = %v", got)
	}
}

func TestExecutePlan_EmptyCountMeansZero(t *testing.T) {
	ms := &mockStore{}
	repo := New(ms)

	b, err := repo.ExecutePlan(context.Background(), doctype.Sample, plan.Plan{})
	if err != nil {
		t.Fatalf("ExecutePlan: %v", err)
	}
	if b.Count() != 0 {
		t.Errorf("Count() = %d, want 0", b.Count())
	}
	if len(b.IDs()) != 0 {
		t.Errorf("IDs() = %v, want empty", b.IDs())
	}
}

func TestExecutePlan_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("connection reset")
	ms := &mockStore{
		aggregateFn: func(context.Context, string, mongo.Pipeline) ([]bson.D, error) {
			return nil, storeErr
		},
	}
	repo := New(ms)

	if _, err := repo.ExecutePlan(context.Background(), doctype.Study, plan.Plan{}); !errors.Is(err, storeErr) {
		t.Errorf("err = %v, want wrapped store error", err)
	}
}

func TestExecutePlan_UnexpectedRowCount(t *testing.T) {
	ms := &mockStore{
		aggregateFn: func(context.Context, string, mongo.Pipeline) ([]bson.D, error) {
			return nil, nil
		},
	}
	repo := New(ms)

	if _, err := repo.ExecutePlan(context.Background(), doctype.Study, plan.Plan{}); err == nil {
		t.Fatal("expected error for zero result documents")
	}
}

func TestFetchDocument_UsesPrimaryCollection(t *testing.T) {
	var fetchedCollection string
	ms := &mockStore{
		findByIDFn: func(_ context.Context, collection, id string) (bson.M, error) {
			fetchedCollection = collection
			return bson.M{"id": id, "title": "Dataset for soft tissue tumor RNA"}, nil
		},
	}
	repo := New(ms)

	doc, err := repo.FetchDocument(context.Background(), doctype.Dataset, "DAT-1")
	if err != nil {
		t.Fatalf("FetchDocument: %v", err)
	}
	// Full content always comes from the primary collection, even though
	// the faceted query ran against the embedded view.
	if fetchedCollection != "Dataset" {
		t.Errorf("fetched from %q, want Dataset", fetchedCollection)
	}
	if doc["title"] == "" {
		t.Error("expected full document content")
	}
}

func TestFetchDocument_NotFound(t *testing.T) {
	ms := &mockStore{
		findByIDFn: func(context.Context, string, string) (bson.M, error) {
			return nil, domain.ErrDocumentNotFound
		},
	}
	repo := New(ms)

	if _, err := repo.FetchDocument(context.Background(), doctype.File, "missing"); !errors.Is(err, domain.ErrDocumentNotFound) {
		t.Errorf("err = %v, want ErrDocumentNotFound", err)
	}
}
