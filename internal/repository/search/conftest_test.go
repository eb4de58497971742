package search

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// mockStore implements the consumer interface for tests.
type mockStore struct {
	aggregateFn func(ctx context.Context, collection string, pipeline mongo.Pipeline) ([]bson.D, error)
	findByIDFn  func(ctx context.Context, collection, id string) (bson.M, error)

	lastCollection string
	lastPipeline   mongo.Pipeline
}

func (m *mockStore) Aggregate(ctx context.Context, collection string, pipeline mongo.Pipeline) ([]bson.D, error) {
	m.lastCollection = collection
	m.lastPipeline = pipeline
	if m.aggregateFn != nil {
		return m.aggregateFn(ctx, collection, pipeline)
	}
	return []bson.D{emptyResultRow()}, nil
}

func (m *mockStore) FindByID(ctx context.Context, collection, id string) (bson.M, error) {
	if m.findByIDFn != nil {
		return m.findByIDFn(ctx, collection, id)
	}
	return bson.M{"id": id}, nil
}

// emptyResultRow is the $facet output for a search matching nothing.
func emptyResultRow() bson.D {
	return bson.D{
		{Key: "metadata", Value: bson.A{}},
		{Key: "data", Value: bson.A{}},
	}
}

func pageEntry(id string) bson.D {
	return bson.D{{Key: "id", Value: id}}
}

func bucketEntry(groupValue any, count int32) bson.D {
	return bson.D{
		{Key: "_id", Value: groupValue},
		{Key: "count", Value: count},
	}
}
