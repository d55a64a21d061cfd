package collect

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"article-etl/pkg/domain"
	"article-etl/pkg/httpclient"
	"article-etl/pkg/sources"
)

// APIAdapter collects article metadata from JSON API endpoints. It tolerates
// the common payload shapes without requiring a per-API schema.
type APIAdapter struct {
	client *httpclient.Client
	log    *zap.SugaredLogger
}

// NewAPIAdapter creates a JSON API adapter.
func NewAPIAdapter(client *httpclient.Client, log *zap.SugaredLogger) *APIAdapter {
	return &APIAdapter{client: client, log: log}
}

// Fetch retrieves the endpoint with the source's query params and headers
// and normalizes up to limit items into article records.
func (a *APIAdapter) Fetch(ctx context.Context, def sources.Definition, limit int) ([]domain.Article, error) {
	a.log.Infow("collecting API articles", "source", def.Name, "url", def.URL)

	body, _, err := a.client.Get(ctx, def.URL, def.Params, def.Headers)
	if err != nil {
		return nil, err
	}

	var payload any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("parse JSON from %s: %w", def.URL, err)
	}

	items, ok := itemList(payload, limit)
	if !ok {
		a.log.Warnw("unexpected JSON structure from API", "url", def.URL)
		return nil, nil
	}

	var articles []domain.Article
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		articles = append(articles, domain.Article{
			ID:       i + 1,
			Title:    firstString(obj, "title", "headline", noTitle),
			Link:     firstString(obj, "url", "link", ""),
			ImageURL: firstString(obj, "image_url", "image", ""),
			Source:   def.URL,
		})
	}

	a.log.Infow("collected API articles", "url", def.URL, "count", len(articles))
	return articles, nil
}

// itemList extracts the article list from the supported top-level shapes:
// {"articles": [...]}, {"data": [...]}, a bare array, or a single object
// treated as a one-element list. Anything else reports !ok.
func itemList(payload any, limit int) ([]any, bool) {
	switch v := payload.(type) {
	case map[string]any:
		if list, ok := v["articles"].([]any); ok {
			return capItems(list, limit), true
		}
		if list, ok := v["data"].([]any); ok {
			return capItems(list, limit), true
		}
		if limit <= 0 {
			return nil, true
		}
		return []any{v}, true
	case []any:
		return capItems(v, limit), true
	default:
		return nil, false
	}
}

func capItems(items []any, limit int) []any {
	if len(items) > limit {
		return items[:limit]
	}
	return items
}

// firstString returns the first non-empty string value among the keys, or
// the fallback.
func firstString(obj map[string]any, key, altKey, fallback string) string {
	if s, ok := obj[key].(string); ok && s != "" {
		return s
	}
	if s, ok := obj[altKey].(string); ok && s != "" {
		return s
	}
	return fallback
}
