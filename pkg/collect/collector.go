package collect

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"article-etl/pkg/config"
	"article-etl/pkg/dataset"
	"article-etl/pkg/domain"
	"article-etl/pkg/httpclient"
	"article-etl/pkg/sources"
	"article-etl/pkg/storage"
)

// SourceResult records the outcome of one adapter call so callers can
// inspect failure counts instead of relying on log output.
type SourceResult struct {
	Source sources.Definition
	Count  int
	Err    error
}

// Collector runs the collection stage: one adapter call per enabled source,
// results concatenated into the first pipeline artifact.
type Collector struct {
	cfg   *config.Config
	store storage.ObjectStore
	log   *zap.SugaredLogger

	html *HTMLAdapter
	rss  *RSSAdapter
	api  *APIAdapter
}

// NewCollector builds the collection stage with its three adapters sharing
// one HTTP client.
func NewCollector(cfg *config.Config, store storage.ObjectStore, log *zap.SugaredLogger) *Collector {
	client := httpclient.New(cfg.HTTPTimeout)
	return &Collector{
		cfg:   cfg,
		store: store,
		log:   log,
		html:  NewHTMLAdapter(client, log),
		rss:   NewRSSAdapter(client, log),
		api:   NewAPIAdapter(client, log),
	}
}

// Name implements pipeline.Stage.
func (c *Collector) Name() string { return "collect" }

// Run collects from every enabled source and writes the combined artifact.
// When no source yields any records the run is a no-op: nothing is written.
func (c *Collector) Run(ctx context.Context) error {
	defs, err := sources.LoadFile(c.cfg.SourcesFile)
	if err != nil {
		return err
	}
	if len(defs) == 0 {
		c.log.Warnw("no sources enabled", "file", c.cfg.SourcesFile)
		return nil
	}

	combined, results := c.CollectAll(ctx, defs)

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
		}
	}
	c.log.Infow("collection finished",
		"sources", len(results), "failures", failures, "records", combined.Len())

	if combined.Len() == 0 {
		c.log.Warnw("no data collected from any source")
		return nil
	}

	if err := storage.PutTable(ctx, c.store, c.cfg.BucketCollect, config.FileCollect, combined); err != nil {
		return err
	}
	c.log.Infow("uploaded stage artifact",
		"bucket", c.cfg.BucketCollect, "object", config.FileCollect, "rows", combined.Len())
	return nil
}

// CollectAll dispatches each definition to its adapter, preserving source
// iteration order. Per-source failures are isolated into the result slice;
// the combined table is renumbered so id is unique within the run.
func (c *Collector) CollectAll(ctx context.Context, defs []sources.Definition) (*dataset.Table, []SourceResult) {
	combined := dataset.New(domain.CollectColumns...)
	results := make([]SourceResult, 0, len(defs))

	for _, def := range defs {
		adapter := adapterFor(def.Type, c.html, c.rss, c.api)
		articles, err := adapter.Fetch(ctx, def, DefaultLimit)
		if err != nil {
			c.log.Warnw("source collection failed",
				"source", def.Name, "url", def.URL, "error", err)
			results = append(results, SourceResult{Source: def, Err: err})
			continue
		}
		if len(articles) == 0 {
			c.log.Warnw("no articles found for source", "source", def.Name)
			results = append(results, SourceResult{Source: def})
			continue
		}

		for _, article := range articles {
			combined.Append(article.Row())
		}
		results = append(results, SourceResult{Source: def, Count: len(articles)})
	}

	// Adapters number within their own output; make id run-unique.
	combined.AddColumn(domain.ColID, func(row int) string {
		return strconv.Itoa(row + 1)
	})

	return combined, results
}
