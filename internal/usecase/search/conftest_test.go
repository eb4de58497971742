package search

import (
	"context"

	"github.com/kailas-cloud/metadex/internal/domain/doctype"
	"github.com/kailas-cloud/metadex/internal/domain/fieldpath"
	"github.com/kailas-cloud/metadex/internal/domain/plan"
	"github.com/kailas-cloud/metadex/internal/domain/search/bundle"
)

// mockRepo implements Repository for tests.
type mockRepo struct {
	bundle     bundle.Bundle
	executeErr error
	fetchErr   error

	lastPlan   plan.Plan
	lastType   doctype.Type
	fetchedIDs []string
	documents  map[string]map[string]any
}

func (m *mockRepo) ExecutePlan(_ context.Context, dt doctype.Type, p plan.Plan) (bundle.Bundle, error) {
	m.lastType = dt
	m.lastPlan = p
	if m.executeErr != nil {
		return bundle.Bundle{}, m.executeErr
	}
	return m.bundle, nil
}

func (m *mockRepo) FetchDocument(_ context.Context, _ doctype.Type, id string) (map[string]any, error) {
	m.fetchedIDs = append(m.fetchedIDs, id)
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	if doc, ok := m.documents[id]; ok {
		return doc, nil
	}
	return map[string]any{"id": id}, nil
}

// scalarBucket builds a bucket of plain string group values from
// value/count pairs, in the given order.
func scalarBucket(field string, pairs ...any) bundle.Bucket {
	entries := make([]bundle.Entry, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		entries = append(entries, bundle.NewEntry(
			bundle.NewScalar(pairs[i].(string)), pairs[i+1].(int)))
	}
	return bundle.NewBucket(fieldpath.Parse(field), entries)
}
