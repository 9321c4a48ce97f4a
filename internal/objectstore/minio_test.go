package objectstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormaliseEndpoint(t *testing.T) {
	tests := []struct {
		raw      string
		endpoint string
		secure   bool
		wantErr  bool
	}{
		{raw: "minio:9000", endpoint: "minio:9000"},
		{raw: "http://minio:9000", endpoint: "minio:9000"},
		{raw: "https://s3.example.com", endpoint: "s3.example.com", secure: true},
		{raw: "https://s3.example.com/", endpoint: "s3.example.com", secure: true},
		{raw: "https://s3.example.com/bucket", wantErr: true},
		{raw: "  ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			endpoint, secure, err := normaliseEndpoint(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.endpoint, endpoint)
			assert.Equal(t, tt.secure, secure)
		})
	}
}

func TestMinioStore_PublicURL(t *testing.T) {
	s := &MinioStore{publicBaseURL: publicBaseURL("", "localhost:9000", false, "images")}
	assert.Equal(t, "http://localhost:9000/images/session/abc/page-1.png", s.PublicURL("session/abc/page-1.png"))

	s = &MinioStore{publicBaseURL: publicBaseURL("https://cdn.example.com/", "s3:9000", true, "images")}
	assert.Equal(t, "https://cdn.example.com/session/abc/page-1.png", s.PublicURL("session/abc/page-1.png"))
}
