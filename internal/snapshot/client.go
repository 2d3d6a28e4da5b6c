// Package snapshot pushes point-in-time backups to MinIO: a full metadata
// snapshot before a destructive layout reset, and a previous-bytes backup
// before every in-place capture-document rewrite. Adapted from the teacher's
// internal/storage/minio.go, narrowed to the write/read paths this system
// actually needs (no presigned URLs: nothing here is served to a browser).
package snapshot

import (
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ObjectStore is the subset of object-storage operations the snapshot
// package depends on, so callers can substitute a fake in tests.
type ObjectStore interface {
	UploadObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	DownloadObject(ctx context.Context, key string) (io.ReadCloser, error)
	ObjectExists(ctx context.Context, key string) (bool, error)
}

// Client is a MinIO-backed ObjectStore.
type Client struct {
	inner      *minio.Client
	bucketName string
}

var _ ObjectStore = (*Client)(nil)

// Config holds MinIO connection parameters.
type Config struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	UseSSL          bool
}

// NewClient connects to MinIO and ensures the configured bucket exists.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	inner, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("snapshot: create minio client: %w", err)
	}

	exists, err := inner.BucketExists(ctx, cfg.BucketName)
	if err != nil {
		return nil, fmt.Errorf("snapshot: check bucket %q: %w", cfg.BucketName, err)
	}
	if !exists {
		if err := inner.MakeBucket(ctx, cfg.BucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("snapshot: create bucket %q: %w", cfg.BucketName, err)
		}
	}

	return &Client{inner: inner, bucketName: cfg.BucketName}, nil
}

// UploadObject writes reader's content to key under the configured bucket.
func (c *Client) UploadObject(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error {
	_, err := c.inner.PutObject(ctx, c.bucketName, key, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("snapshot: upload %q: %w", key, err)
	}
	return nil
}

// DownloadObject opens key for reading; the caller must close it.
func (c *Client) DownloadObject(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := c.inner.GetObject(ctx, c.bucketName, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("snapshot: download %q: %w", key, err)
	}
	return obj, nil
}

// ObjectExists reports whether key is present in the bucket.
func (c *Client) ObjectExists(ctx context.Context, key string) (bool, error) {
	_, err := c.inner.StatObject(ctx, c.bucketName, key, minio.StatObjectOptions{})
	if err != nil {
		errResp := minio.ToErrorResponse(err)
		if errResp.Code == "NoSuchKey" || errResp.Code == "NotFound" {
			return false, nil
		}
		return false, fmt.Errorf("snapshot: stat %q: %w", key, err)
	}
	return true, nil
}
