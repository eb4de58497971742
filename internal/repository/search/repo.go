// Package search adapts compiled query plans to the MongoDB store: it
// encodes plans into aggregation pipelines, executes them, and parses the
// raw store output back into domain values.
package search

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kailas-cloud/metadex/internal/domain/doctype"
	"github.com/kailas-cloud/metadex/internal/domain/plan"
	"github.com/kailas-cloud/metadex/internal/domain/search/bundle"
)

// store is the consumer interface for plan execution (ISP).
type store interface {
	Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline) ([]bson.D, error)
	FindByID(ctx context.Context, collection, id string) (bson.M, error)
}

// datasetEmbeddedCollection is the denormalized view queried in place of
// the Dataset collection: Dataset itself does not carry the joined fields
// that filters and facets reference.
const datasetEmbeddedCollection = "DatasetEmbedded"

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// ExecutePlan runs a compiled plan against the document type's search
// collection and parses the single result document into a bundle.
func (r *Repo) ExecutePlan(ctx context.Context, dt doctype.Type, p plan.Plan) (bundle.Bundle, error) {
	collection := searchCollection(dt)
	rows, err := r.store.Aggregate(ctx, collection, encodePlan(p))
	if err != nil {
		return bundle.Bundle{}, fmt.Errorf("execute plan on %s: %w", collection, err)
	}
	// A faceted pipeline always yields exactly one document.
	if len(rows) != 1 {
		return bundle.Bundle{}, fmt.Errorf(
			"execute plan on %s: expected one result document, got %d", collection, len(rows))
	}
	b, err := parseBundle(rows[0])
	if err != nil {
		return bundle.Bundle{}, fmt.Errorf("parse result from %s: %w", collection, err)
	}
	return b, nil
}

// FetchDocument retrieves full record content by identifier from the
// document type's primary collection.
func (r *Repo) FetchDocument(ctx context.Context, dt doctype.Type, id string) (map[string]any, error) {
	doc, err := r.store.FindByID(ctx, dt.Collection(), id)
	if err != nil {
		return nil, fmt.Errorf("fetch %s %q: %w", dt, id, err)
	}
	return doc, nil
}

func searchCollection(dt doctype.Type) string {
	if dt == doctype.Dataset {
		return datasetEmbeddedCollection
	}
	return dt.Collection()
}

// parseBundle decodes the single $facet output document. The data and
// metadata fields are the page and total count; every other field is a
// facet bucket keyed by its flattened field name.
func parseBundle(row bson.D) (bundle.Bundle, error) {
	var (
		ids     []string
		count   int
		buckets []bundle.Bucket
	)
	for _, elem := range row {
		switch elem.Key {
		case pageField:
			page, err := parsePage(elem.Value)
			if err != nil {
				return bundle.Bundle{}, err
			}
			ids = page
		case countField:
			total, err := parseCount(elem.Value)
			if err != nil {
				return bundle.Bundle{}, err
			}
			count = total
		default:
			b, err := parseBucket(elem.Key, elem.Value)
			if err != nil {
				return bundle.Bundle{}, err
			}
			buckets = append(buckets, b)
		}
	}
	return bundle.New(count, ids, buckets), nil
}

func parsePage(v any) ([]string, error) {
	entries, ok := v.(bson.A)
	if !ok {
		return nil, fmt.Errorf("page is %T, want array", v)
	}
	ids := make([]string, 0, len(entries))
	for _, entry := range entries {
		id, ok := lookupField(entry, "id")
		if !ok {
			return nil, fmt.Errorf("page entry %v has no id", entry)
		}
		s, ok := id.(string)
		if !ok {
			return nil, fmt.Errorf("page entry id is %T, want string", id)
		}
		ids = append(ids, s)
	}
	return ids, nil
}

// parseCount reads the total from the count sub-pipeline; an empty array
// means no document matched.
func parseCount(v any) (int, error) {
	rows, ok := v.(bson.A)
	if !ok {
		return 0, fmt.Errorf("count output is %T, want array", v)
	}
	if len(rows) == 0 {
		return 0, nil
	}
	total, ok := lookupField(rows[0], totalField)
	if !ok {
		return 0, fmt.Errorf("count row %v has no total", rows[0])
	}
	return asInt(total)
}

func parseBucket(key string, v any) (bundle.Bucket, error) {
	rows, ok := v.(bson.A)
	if !ok {
		return bundle.Bucket{}, fmt.Errorf("facet bucket %q is %T, want array", key, v)
	}
	entries := make([]bundle.Entry, 0, len(rows))
	for _, row := range rows {
		groupValue, ok := lookupField(row, "_id")
		if !ok {
			return bundle.Bucket{}, fmt.Errorf("facet bucket %q entry %v has no group value", key, row)
		}
		value, err := parseGroupValue(groupValue)
		if err != nil {
			return bundle.Bucket{}, fmt.Errorf("facet bucket %q: %w", key, err)
		}
		rawCount, ok := lookupField(row, "count")
		if !ok {
			return bundle.Bucket{}, fmt.Errorf("facet bucket %q entry %v has no count", key, row)
		}
		count, err := asInt(rawCount)
		if err != nil {
			return bundle.Bucket{}, fmt.Errorf("facet bucket %q: %w", key, err)
		}
		entries = append(entries, bundle.NewEntry(value, count))
	}
	return bundle.NewBucket(unflattenKey(key), entries), nil
}

func parseGroupValue(v any) (bundle.Value, error) {
	switch val := v.(type) {
	case nil:
		return bundle.NewNull(), nil
	case string:
		return bundle.NewScalar(val), nil
	case bson.A:
		items := make([]string, 0, len(val))
		for _, item := range val {
			s, ok := item.(string)
			if !ok {
				return bundle.Value{}, fmt.Errorf("group value element is %T, want string", item)
			}
			items = append(items, s)
		}
		return bundle.NewList(items...), nil
	default:
		return bundle.Value{}, fmt.Errorf("unsupported group value type %T", v)
	}
}

// lookupField reads a field from a decoded document, which arrives as
// bson.D or bson.M depending on the decode path.
func lookupField(doc any, key string) (any, bool) {
	switch d := doc.(type) {
	case bson.D:
		for _, e := range d {
			if e.Key == key {
				return e.Value, true
			}
		}
	case bson.M:
		v, ok := d[key]
		return v, ok
	}
	return nil, false
}

func asInt(v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int32:
		return int(n), nil
	case int64:
		return int(n), nil
	case float64:
		return int(n), nil
	default:
		return 0, fmt.Errorf("count is %T, want integer", v)
	}
}
