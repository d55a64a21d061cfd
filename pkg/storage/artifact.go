package storage

import (
	"context"
	"fmt"

	"article-etl/pkg/dataset"
)

// GetTable downloads and parses a stage artifact. Missing, empty and
// unparsable artifacts are all fatal for the calling stage; the error names
// the bucket and object.
func GetTable(ctx context.Context, store ObjectStore, bucket, object string) (*dataset.Table, error) {
	data, err := GetTableBytes(ctx, store, bucket, object)
	if err != nil {
		return nil, err
	}
	t, err := dataset.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s/%s: %w", bucket, object, err)
	}
	return t, nil
}

// PutTable serializes a table and commits it as one atomic put, creating the
// bucket when needed.
func PutTable(ctx context.Context, store ObjectStore, bucket, object string, t *dataset.Table) error {
	data, err := t.Bytes()
	if err != nil {
		return fmt.Errorf("serialize %s/%s: %w", bucket, object, err)
	}
	if err := store.EnsureBucket(ctx, bucket); err != nil {
		return err
	}
	return store.Put(ctx, bucket, object, data, "text/csv", nil)
}
