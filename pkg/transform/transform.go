// Package transform implements the normalization stage: column-level cleanup
// and simple derived features over the enriched artifact.
package transform

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"article-etl/pkg/config"
	"article-etl/pkg/dataset"
	"article-etl/pkg/domain"
	"article-etl/pkg/storage"
)

// textColumns are trimmed and normalized in place when present.
var textColumns = []string{domain.ColTitle, domain.ColLink, domain.ColImageURL}

// Transformer runs the normalization stage.
type Transformer struct {
	cfg   *config.Config
	store storage.ObjectStore
	log   *zap.SugaredLogger
}

// NewTransformer builds the normalization stage.
func NewTransformer(cfg *config.Config, store storage.ObjectStore, log *zap.SugaredLogger) *Transformer {
	return &Transformer{cfg: cfg, store: store, log: log}
}

// Name implements pipeline.Stage.
func (t *Transformer) Name() string { return "transform" }

// Run reads the enriched artifact, applies the feature pipeline, and writes
// the transformed artifact. Missing or empty input is fatal.
func (t *Transformer) Run(ctx context.Context) error {
	input, err := storage.GetTable(ctx, t.store, t.cfg.BucketExtract, config.FileExtract)
	if err != nil {
		return err
	}
	if input.Len() == 0 {
		return fmt.Errorf("artifact %s/%s has no rows, nothing to transform",
			t.cfg.BucketExtract, config.FileExtract)
	}
	t.log.Infow("downloaded enriched artifact",
		"bucket", t.cfg.BucketExtract, "object", config.FileExtract, "rows", input.Len())

	TransformArticles(input)
	t.log.Infow("transformation pipeline complete", "rows", input.Len())

	if err := storage.PutTable(ctx, t.store, t.cfg.BucketTransform, config.FileTransform, input); err != nil {
		return err
	}
	t.log.Infow("uploaded stage artifact",
		"bucket", t.cfg.BucketTransform, "object", config.FileTransform, "rows", input.Len())
	return nil
}

// TransformArticles applies the feature pipeline in place: text-column
// cleanup, then derived features. Every row passes through; no filtering.
func TransformArticles(t *dataset.Table) {
	CleanTextColumns(t)
	AddTitleLength(t)
}

// CleanTextColumns trims whitespace from the key text columns. Absent
// columns are skipped rather than failing.
func CleanTextColumns(t *dataset.Table) {
	for _, col := range textColumns {
		t.Apply(col, strings.TrimSpace)
	}
}

// AddTitleLength derives title_length as the character count of the title.
// Skipped when the table has no title column.
func AddTitleLength(t *dataset.Table) {
	if !t.HasColumn(domain.ColTitle) {
		return
	}
	t.AddColumn(domain.ColTitleLength, func(row int) string {
		return strconv.Itoa(utf8.RuneCountInString(t.Get(row, domain.ColTitle)))
	})
}
