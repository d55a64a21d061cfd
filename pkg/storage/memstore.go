package storage

import (
	"context"
	"fmt"
	"sync"
)

// MemStore is an in-memory ObjectStore used by tests and local dry runs.
type MemStore struct {
	mu      sync.Mutex
	buckets map[string]map[string]memObject
}

type memObject struct {
	data        []byte
	contentType string
	metadata    map[string]string
}

// NewMemStore returns an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{buckets: make(map[string]map[string]memObject)}
}

// EnsureBucket creates the bucket map when absent.
func (s *MemStore) EnsureBucket(_ context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[bucket]; !ok {
		s.buckets[bucket] = make(map[string]memObject)
	}
	return nil
}

// Put stores a copy of data, overwriting any existing object.
func (s *MemStore) Put(_ context.Context, bucket, object string, data []byte, contentType string, metadata map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.buckets[bucket]; !ok {
		s.buckets[bucket] = make(map[string]memObject)
	}
	s.buckets[bucket][object] = memObject{
		data:        append([]byte(nil), data...),
		contentType: contentType,
		metadata:    metadata,
	}
	return nil
}

// Get returns a copy of the stored object.
func (s *MemStore) Get(_ context.Context, bucket, object string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.buckets[bucket]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, object, ErrObjectNotFound)
	}
	obj, ok := b[object]
	if !ok {
		return nil, fmt.Errorf("get %s/%s: %w", bucket, object, ErrObjectNotFound)
	}
	return append([]byte(nil), obj.data...), nil
}

// Objects lists the object names in a bucket, for test assertions.
func (s *MemStore) Objects(bucket string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	var names []string
	for name := range s.buckets[bucket] {
		names = append(names, name)
	}
	return names
}

// Metadata returns the metadata recorded for an object, for test assertions.
func (s *MemStore) Metadata(bucket, object string) map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b, ok := s.buckets[bucket]; ok {
		return b[object].metadata
	}
	return nil
}
