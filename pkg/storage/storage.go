// Package storage provides the object-store handoff between pipeline stages.
//
// Every stage reads its predecessor's artifact and writes its own through
// ObjectStore; the MinIO implementation is the production backend and
// MemStore backs tests.
package storage

import (
	"context"
	"errors"
	"fmt"
)

// ErrObjectNotFound indicates the requested object does not exist in the
// bucket. Stage entrypoints translate this into a fatal missing-input error.
var ErrObjectNotFound = errors.New("object not found")

// ObjectStore is the minimal blob-store capability the pipeline needs:
// bucket provisioning plus whole-object get and atomic put.
type ObjectStore interface {
	// EnsureBucket creates the bucket if it does not already exist.
	EnsureBucket(ctx context.Context, bucket string) error

	// Put writes object data in a single atomic operation, overwriting any
	// previous object of the same name. Metadata keys are optional
	// descriptive annotations.
	Put(ctx context.Context, bucket, object string, data []byte, contentType string, metadata map[string]string) error

	// Get returns the full object contents. Returns an error wrapping
	// ErrObjectNotFound when the object is absent.
	Get(ctx context.Context, bucket, object string) ([]byte, error)
}

// GetTableBytes fetches a stage artifact and fails loudly when the object is
// missing or empty, naming the bucket and object in the error.
func GetTableBytes(ctx context.Context, store ObjectStore, bucket, object string) ([]byte, error) {
	data, err := store.Get(ctx, bucket, object)
	if err != nil {
		return nil, fmt.Errorf("download %s/%s: %w", bucket, object, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("object %s/%s is empty", bucket, object)
	}
	return data, nil
}
