package search

import (
	"context"

	"github.com/kailas-cloud/metadex/internal/domain/doctype"
	"github.com/kailas-cloud/metadex/internal/domain/plan"
	"github.com/kailas-cloud/metadex/internal/domain/search/bundle"
)

// Repository executes compiled plans and fetches record content.
type Repository interface {
	ExecutePlan(ctx context.Context, documentType doctype.Type, p plan.Plan) (bundle.Bundle, error)
	FetchDocument(ctx context.Context, documentType doctype.Type, id string) (map[string]any, error)
}
