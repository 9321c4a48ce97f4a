package supabase

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// fileUploader is the part of the storage-go client used for publishing pages.
type fileUploader interface {
	UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...storage.FileOptions) (storage.FileUploadResponse, error)
}

type StorageClient struct {
	client  fileUploader
	bucket  string
	baseURL string
}

func NewStorageClient(client *storage.Client, supabaseURL, bucket string) *StorageClient {
	return newStorageClient(client, supabaseURL, bucket)
}

func newStorageClient(client fileUploader, supabaseURL, bucket string) *StorageClient {
	return &StorageClient{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(supabaseURL, "/"),
	}
}

// Upload stores data at path, overwriting any existing object. storage-go has
// no context support, so a done ctx returns early while the request finishes
// in the background.
func (s *StorageClient) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	upsert := true
	done := make(chan error, 1)
	go func() {
		_, err := s.client.UploadFile(s.bucket, path, bytes.NewReader(data), storage.FileOptions{
			ContentType: &contentType,
			Upsert:      &upsert,
		})
		done <- err
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("failed to upload %s: %w", path, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("failed to upload %s: %w", path, ctx.Err())
	}
}

func (s *StorageClient) PublicURL(path string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s",
		s.baseURL, s.bucket, path)
}
