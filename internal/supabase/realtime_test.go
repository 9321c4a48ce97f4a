package supabase_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"slidecast-backend/internal/supabase"
)

func TestRealtimeClient_PublishSessionEvent(t *testing.T) {
	sessionID := uuid.New()
	var got struct {
		Messages []struct {
			Topic   string                 `json:"topic"`
			Event   string                 `json:"event"`
			Payload map[string]interface{} `json:"payload"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/realtime/v1/api/broadcast", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	client := supabase.NewRealtimeClient(srv.URL, "service-key", srv.Client())
	err := client.PublishSessionEvent(context.Background(), sessionID, supabase.EventSessionStarted,
		supabase.SessionStartedPayload(sessionID, time.Now()))
	require.NoError(t, err)

	require.Len(t, got.Messages, 1)
	assert.Equal(t, "session:"+sessionID.String(), got.Messages[0].Topic)
	assert.Equal(t, supabase.EventSessionStarted, got.Messages[0].Event)
	assert.Equal(t, "active", got.Messages[0].Payload["status"])
}

func TestRealtimeClient_RejectedBroadcast(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := supabase.NewRealtimeClient(srv.URL, "bad-key", srv.Client())
	err := client.PublishEvent(context.Background(), "session:x", supabase.EventSessionEnded, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
