package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
)

// ObjectStore abstracts blob storage for uploaded media so handlers can be
// exercised against a fake in tests.
type ObjectStore interface {
	// Put stores the object and returns its public URL.
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error)
	// Remove deletes the object. Missing objects are not an error.
	Remove(ctx context.Context, key string) error
	// KeyFromURL recovers the object key from a public URL produced by Put.
	KeyFromURL(rawURL string) string
}

// minioStore implements ObjectStore on a single MinIO bucket.
type minioStore struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

// NewMinioStore creates an ObjectStore backed by the given MinIO client.
func NewMinioStore(client *minio.Client, bucket, publicURL string) ObjectStore {
	return &minioStore{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *minioStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to store object %s: %w", key, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, key), nil
}

func (s *minioStore) Remove(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove object %s: %w", key, err)
	}
	return nil
}

// KeyFromURL strips the public prefix and bucket from the URL. Keys carry
// the audio/ or covers/ prefix, so taking only the last path segment would
// lose it.
func (s *minioStore) KeyFromURL(rawURL string) string {
	marker := "/" + s.bucket + "/"
	if idx := strings.Index(rawURL, marker); idx >= 0 {
		return rawURL[idx+len(marker):]
	}
	return path.Base(rawURL)
}
