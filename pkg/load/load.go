// Package load implements the final pipeline stages: publishing the
// transformed artifact to the load bucket and seeding relational reference
// data.
package load

import (
	"context"

	"go.uber.org/zap"

	"article-etl/pkg/config"
	"article-etl/pkg/storage"
)

// Loader copies the transformed artifact into the load bucket for
// downstream consumers.
type Loader struct {
	cfg   *config.Config
	store storage.ObjectStore
	log   *zap.SugaredLogger
}

// NewLoader builds the load stage.
func NewLoader(cfg *config.Config, store storage.ObjectStore, log *zap.SugaredLogger) *Loader {
	return &Loader{cfg: cfg, store: store, log: log}
}

// Name implements pipeline.Stage.
func (l *Loader) Name() string { return "load" }

// Run transfers the transformed file into the load bucket byte-for-byte:
// one get, one atomic put. Missing input and upload failures are fatal.
func (l *Loader) Run(ctx context.Context) error {
	data, err := storage.GetTableBytes(ctx, l.store, l.cfg.BucketTransform, config.FileTransform)
	if err != nil {
		return err
	}
	l.log.Infow("downloaded transformed artifact",
		"bucket", l.cfg.BucketTransform, "object", config.FileTransform, "bytes", len(data))

	if err := l.store.EnsureBucket(ctx, l.cfg.BucketLoad); err != nil {
		return err
	}
	if err := l.store.Put(ctx, l.cfg.BucketLoad, config.FileLoad, data, "text/csv", nil); err != nil {
		return err
	}

	l.log.Infow("uploaded stage artifact",
		"bucket", l.cfg.BucketLoad, "object", config.FileLoad, "bytes", len(data))
	return nil
}
