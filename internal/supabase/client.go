package supabase

import (
	"fmt"
	"strings"

	"github.com/supabase-community/supabase-go"
	"slidecast-backend/internal/config"
)

type Client struct {
	Supabase *supabase.Client
	baseURL  string
	key      string
}

func NewClient(cfg *config.Config) (*Client, error) {
	baseURL := strings.TrimSuffix(cfg.SupabaseURL, "/")
	client, err := supabase.NewClient(baseURL, cfg.SupabaseServiceKey, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create supabase client: %w", err)
	}

	return &Client{
		Supabase: client,
		baseURL:  baseURL,
		key:      cfg.SupabaseServiceKey,
	}, nil
}

// Storage returns a bucket-scoped storage client sharing the project's credentials.
func (c *Client) Storage(bucket string) *StorageClient {
	return NewStorageClient(c.Supabase.Storage, c.baseURL, bucket)
}

// Realtime returns a broadcaster for the project's Realtime service.
func (c *Client) Realtime() *RealtimeClient {
	return NewRealtimeClient(c.baseURL, c.key, nil)
}
