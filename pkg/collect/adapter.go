// Package collect implements the source adapters and the collection stage
// that writes the first pipeline artifact.
package collect

import (
	"context"

	"article-etl/pkg/domain"
	"article-etl/pkg/sources"
)

// DefaultLimit caps the number of records an adapter returns per source
// unless the caller overrides it.
const DefaultLimit = 10

// noTitle is the placeholder when a title cannot be recovered.
const noTitle = "No title"

// Adapter normalizes one kind of source into article records. A non-nil
// error means the whole source failed; adapters never fail on individual
// malformed items.
type Adapter interface {
	Fetch(ctx context.Context, def sources.Definition, limit int) ([]domain.Article, error)
}

// adapterFor returns the handler for each source variant. The mapping is
// total over the closed Type set.
func adapterFor(t sources.Type, h *HTMLAdapter, r *RSSAdapter, a *APIAdapter) Adapter {
	switch t {
	case sources.Rss:
		return r
	case sources.Api:
		return a
	default:
		return h
	}
}
