package search

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/kailas-cloud/metadex/internal/domain/fieldpath"
	"github.com/kailas-cloud/metadex/internal/domain/plan"
)

// $facet output field names may not contain dots, so nested facet keys
// travel flattened and are restored when parsing results. The separator
// never leaves this package.
const flatSeparator = "__"

// Reserved $facet output fields that are not facet buckets.
const (
	pageField  = "data"
	countField = "metadata"
	totalField = "total"
)

func flattenKey(p fieldpath.Path) string {
	return strings.Join(p.Segments(), flatSeparator)
}

func unflattenKey(key string) fieldpath.Path {
	return fieldpath.New(strings.Split(key, flatSeparator)...)
}

// encodePlan translates a compiled plan into the store's aggregation
// pipeline syntax, one pipeline stage per plan stage.
func encodePlan(p plan.Plan) mongo.Pipeline {
	pipeline := make(mongo.Pipeline, 0, len(p.Stages))
	for _, stage := range p.Stages {
		switch s := stage.(type) {
		case plan.TextMatch:
			pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.D{
				{Key: "$text", Value: bson.D{{Key: "$search", Value: s.Query}}},
			}}})
		case plan.Join:
			pipeline = append(pipeline, bson.D{{Key: "$lookup", Value: bson.D{
				{Key: "from", Value: s.From},
				{Key: "localField", Value: s.LocalField},
				{Key: "foreignField", Value: "id"},
				{Key: "as", Value: s.LocalField},
			}}})
		case plan.Filter:
			pipeline = append(pipeline, bson.D{{Key: "$match", Value: encodeFilter(s)}})
		case plan.Aggregate:
			pipeline = append(pipeline, bson.D{{Key: "$facet", Value: encodeAggregate(s)}})
		case plan.Project:
			pipeline = append(pipeline, bson.D{{Key: "$project", Value: encodeProject(s)}})
		}
	}
	return pipeline
}

func encodeFilter(s plan.Filter) bson.D {
	match := make(bson.D, 0, len(s.Groups))
	for _, g := range s.Groups {
		match = append(match, bson.E{
			Key:   g.Field.String(),
			Value: bson.D{{Key: "$in", Value: g.Values}},
		})
	}
	return match
}

// encodeAggregate emits the $facet document: one group/count sub-pipeline
// per facet field, the total count, and the identifier page.
func encodeAggregate(s plan.Aggregate) bson.D {
	out := make(bson.D, 0, len(s.Facets)+2)
	for _, f := range s.Facets {
		out = append(out, bson.E{Key: flattenKey(f), Value: bson.A{
			bson.D{{Key: "$group", Value: bson.D{
				{Key: "_id", Value: "$" + f.String()},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			}}},
		}})
	}

	out = append(out, bson.E{Key: countField, Value: bson.A{
		bson.D{{Key: "$count", Value: totalField}},
	}})

	page := bson.A{
		bson.D{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}
	if !s.Page.Unbounded {
		page = append(page,
			bson.D{{Key: "$project", Value: bson.D{{Key: "id", Value: "$id"}}}},
			bson.D{{Key: "$skip", Value: s.Page.Skip}},
			bson.D{{Key: "$limit", Value: s.Page.Limit}},
		)
	}
	out = append(out, bson.E{Key: pageField, Value: page})
	return out
}

// encodeProject suppresses the store identifier at the top level of each
// page entry and inside every joined sub-document.
func encodeProject(s plan.Project) bson.D {
	out := bson.D{{Key: pageField + "._id", Value: 0}}
	for _, rel := range s.Relations {
		out = append(out, bson.E{Key: pageField + "." + rel + "._id", Value: 0})
	}
	return out
}
