package extract

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"article-etl/pkg/config"
	"article-etl/pkg/dataset"
	"article-etl/pkg/domain"
	"article-etl/pkg/httpclient"
	"article-etl/pkg/storage"
)

// RowResult records the outcome of enriching one collected row.
type RowResult struct {
	Link   string
	Images []string
	Err    error
}

// Extractor runs the extraction stage: reads the collection artifact,
// derives body text and harvested images per linked row, and writes the
// enriched artifact.
type Extractor struct {
	cfg       *config.Config
	store     storage.ObjectStore
	client    *httpclient.Client
	harvester *Harvester
	log       *zap.SugaredLogger
}

// NewExtractor builds the extraction stage.
func NewExtractor(cfg *config.Config, store storage.ObjectStore, log *zap.SugaredLogger) *Extractor {
	client := httpclient.New(cfg.HTTPTimeout)
	return &Extractor{
		cfg:       cfg,
		store:     store,
		client:    client,
		harvester: NewHarvester(client, store, cfg.BucketImage, log),
		log:       log,
	}
}

// Name implements pipeline.Stage.
func (e *Extractor) Name() string { return "extract" }

// Run enriches every linked row of the collection artifact. Rows without a
// link are skipped entirely; per-row fetch failures null the enriched fields
// and never abort the batch.
func (e *Extractor) Run(ctx context.Context) error {
	input, err := storage.GetTable(ctx, e.store, e.cfg.BucketCollect, config.FileCollect)
	if err != nil {
		return err
	}
	if input.Len() == 0 {
		return fmt.Errorf("artifact %s/%s has no rows, nothing to extract",
			e.cfg.BucketCollect, config.FileCollect)
	}
	e.log.Infow("downloaded collection artifact",
		"bucket", e.cfg.BucketCollect, "object", config.FileCollect, "rows", input.Len())

	enriched, results := e.EnrichTable(ctx, input)

	failures := 0
	for _, r := range results {
		if r.Err != nil {
			failures++
		}
	}
	e.log.Infow("extraction finished",
		"rows", enriched.Len(), "skipped", input.Len()-enriched.Len(), "failures", failures)

	if enriched.Len() == 0 {
		e.log.Warnw("no enriched articles were created, output not uploaded")
		return nil
	}

	if err := storage.PutTable(ctx, e.store, e.cfg.BucketExtract, config.FileExtract, enriched); err != nil {
		return err
	}
	e.log.Infow("uploaded stage artifact",
		"bucket", e.cfg.BucketExtract, "object", config.FileExtract, "rows", enriched.Len())
	return nil
}

// EnrichTable processes the collected rows sequentially, returning the
// enriched table and the per-row outcomes.
func (e *Extractor) EnrichTable(ctx context.Context, input *dataset.Table) (*dataset.Table, []RowResult) {
	enriched := dataset.New(domain.ExtractColumns...)
	var results []RowResult

	for r := 0; r < input.Len(); r++ {
		link := input.Get(r, domain.ColLink)
		if link == "" {
			continue
		}

		e.log.Infow("extracting content", "link", link)
		text, images, err := e.enrichRow(ctx, link)
		if err != nil {
			e.log.Warnw("failed to extract content", "link", link, "error", err)
		}
		results = append(results, RowResult{Link: link, Images: images, Err: err})

		enriched.Append(map[string]string{
			domain.ColID:            input.Get(r, domain.ColID),
			domain.ColTitle:         input.Get(r, domain.ColTitle),
			domain.ColLink:          link,
			domain.ColImageURL:      input.Get(r, domain.ColImageURL),
			domain.ColSource:        input.Get(r, domain.ColSource),
			domain.ColSourceName:    input.Get(r, domain.ColSourceName),
			domain.ColExtractedText: text,
			domain.ColFoundImages:   strings.Join(images, ";"),
		})
	}

	return enriched, results
}

// enrichRow fetches the linked page once and derives body text plus
// harvested image paths from the same document.
func (e *Extractor) enrichRow(ctx context.Context, link string) (string, []string, error) {
	body, _, err := e.client.Get(ctx, link, nil, nil)
	if err != nil {
		return "", nil, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", nil, fmt.Errorf("parse page %s: %w", link, err)
	}

	candidates := ImageCandidates(doc)
	images := e.harvester.Harvest(ctx, candidates, "")
	text := ExtractText(doc)

	return text, images, nil
}
