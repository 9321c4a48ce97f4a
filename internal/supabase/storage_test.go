package supabase

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	storage "github.com/supabase-community/storage-go"
)

type recordingUploader struct {
	bucket  string
	path    string
	body    []byte
	options storage.FileOptions
	err     error
	block   chan struct{}
}

func (r *recordingUploader) UploadFile(bucketId string, relativePath string, data io.Reader, fileOptions ...storage.FileOptions) (storage.FileUploadResponse, error) {
	if r.block != nil {
		<-r.block
	}
	r.bucket = bucketId
	r.path = relativePath
	r.body, _ = io.ReadAll(data)
	if len(fileOptions) > 0 {
		r.options = fileOptions[0]
	}
	return storage.FileUploadResponse{}, r.err
}

func TestStorageClient_UploadUsesUpsert(t *testing.T) {
	up := &recordingUploader{}
	client := newStorageClient(up, "https://example.supabase.co/", "images")

	err := client.Upload(context.Background(), "session/abc/page-1.png", []byte("png"), "image/png")
	require.NoError(t, err)

	assert.Equal(t, "images", up.bucket)
	assert.Equal(t, "session/abc/page-1.png", up.path)
	assert.Equal(t, []byte("png"), up.body)
	require.NotNil(t, up.options.Upsert)
	assert.True(t, *up.options.Upsert)
	require.NotNil(t, up.options.ContentType)
	assert.Equal(t, "image/png", *up.options.ContentType)
}

func TestStorageClient_UploadError(t *testing.T) {
	client := newStorageClient(&recordingUploader{err: errors.New("boom")}, "https://example.supabase.co", "images")

	err := client.Upload(context.Background(), "session/abc/page-2.png", []byte("png"), "image/png")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page-2.png")
}

func TestStorageClient_UploadHonoursContext(t *testing.T) {
	up := &recordingUploader{block: make(chan struct{})}
	defer close(up.block)
	client := newStorageClient(up, "https://example.supabase.co", "images")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := client.Upload(ctx, "session/abc/page-1.png", []byte("png"), "image/png")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestStorageClient_PublicURL(t *testing.T) {
	client := newStorageClient(&recordingUploader{}, "https://example.supabase.co/", "images")

	assert.Equal(t,
		"https://example.supabase.co/storage/v1/object/public/images/session/abc/page-3.png",
		client.PublicURL("session/abc/page-3.png"))
}
