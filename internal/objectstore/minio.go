// Package objectstore publishes deck pages to any S3-compatible bucket through minio-go.
package objectstore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinioStore struct {
	client        *minio.Client
	bucket        string
	publicBaseURL string
}

type MinioOptions struct {
	Endpoint  string // "minio:9000" or "https://s3.example.com"
	AccessKey string
	SecretKey string
	Bucket    string
	// PublicBaseURL prefixes object paths in returned URLs. Defaults to the
	// endpoint with the bucket as first path segment.
	PublicBaseURL string
}

func normaliseEndpoint(raw string) (endpoint string, secure bool, err error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false, fmt.Errorf("empty endpoint")
	}

	if strings.Contains(raw, "://") {
		u, err := url.Parse(raw)
		if err != nil {
			return "", false, err
		}
		if u.Host == "" {
			return "", false, fmt.Errorf("invalid endpoint")
		}
		if u.Path != "" && u.Path != "/" {
			return "", false, fmt.Errorf("endpoint must not contain a path")
		}
		return u.Host, u.Scheme == "https", nil
	}

	// host:port without scheme, plain http for local MinIO
	return raw, false, nil
}

func NewMinioStore(ctx context.Context, opts MinioOptions) (*MinioStore, error) {
	endpoint, secure, err := normaliseEndpoint(opts.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid S3 endpoint: %w", err)
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: secure,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, opts.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", opts.Bucket, err)
	}
	if !exists {
		return nil, fmt.Errorf("bucket does not exist: %s", opts.Bucket)
	}

	return &MinioStore{
		client:        client,
		bucket:        opts.Bucket,
		publicBaseURL: publicBaseURL(opts.PublicBaseURL, endpoint, secure, opts.Bucket),
	}, nil
}

func publicBaseURL(configured, endpoint string, secure bool, bucket string) string {
	if configured != "" {
		return strings.TrimSuffix(configured, "/")
	}
	scheme := "http"
	if secure {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s", scheme, endpoint, bucket)
}

// Upload writes data at path. S3 PUT replaces existing objects, which gives upsert.
func (s *MinioStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, path, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", path, err)
	}
	return nil
}

func (s *MinioStore) PublicURL(path string) string {
	return s.publicBaseURL + "/" + path
}
