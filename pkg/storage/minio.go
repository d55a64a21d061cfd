package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"article-etl/pkg/config"
)

// MinioStore implements ObjectStore on a MinIO (or any S3-compatible) server.
type MinioStore struct {
	client *minio.Client
}

// NewMinioStore connects to the MinIO endpoint from the configuration.
func NewMinioStore(cfg *config.Config) (*MinioStore, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioSecure,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &MinioStore{client: client}, nil
}

// EnsureBucket creates the bucket when it does not already exist.
func (s *MinioStore) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

// Put uploads the object in one PutObject call.
func (s *MinioStore) Put(ctx context.Context, bucket, object string, data []byte, contentType string, metadata map[string]string) error {
	_, err := s.client.PutObject(
		ctx,
		bucket,
		object,
		bytes.NewReader(data),
		int64(len(data)),
		minio.PutObjectOptions{
			ContentType:  contentType,
			UserMetadata: metadata,
		},
	)
	if err != nil {
		return fmt.Errorf("upload %s/%s: %w", bucket, object, err)
	}
	return nil
}

// Get downloads the full object contents.
func (s *MinioStore) Get(ctx context.Context, bucket, object string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, object, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		var resp minio.ErrorResponse
		if errors.As(err, &resp) && resp.Code == "NoSuchKey" {
			return nil, fmt.Errorf("get %s/%s: %w", bucket, object, ErrObjectNotFound)
		}
		return nil, fmt.Errorf("read %s/%s: %w", bucket, object, err)
	}
	return data, nil
}
