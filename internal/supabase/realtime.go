package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

type RealtimeClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewRealtimeClient(baseURL, apiKey string, httpClient *http.Client) *RealtimeClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &RealtimeClient{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: httpClient,
	}
}

type broadcastMessage struct {
	Topic   string                 `json:"topic"`
	Event   string                 `json:"event"`
	Payload map[string]interface{} `json:"payload"`
}

type broadcastRequest struct {
	Messages []broadcastMessage `json:"messages"`
}

// PublishEvent sends one message through the Realtime broadcast REST endpoint.
func (r *RealtimeClient) PublishEvent(ctx context.Context, topic string, event string, payload map[string]interface{}) error {
	body, err := json.Marshal(broadcastRequest{
		Messages: []broadcastMessage{{Topic: topic, Event: event, Payload: payload}},
	})
	if err != nil {
		return fmt.Errorf("failed to encode broadcast: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.baseURL+"/realtime/v1/api/broadcast", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", r.apiKey)
	req.Header.Set("Authorization", "Bearer "+r.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("broadcast rejected: status %d, body: %s", resp.StatusCode, string(respBody))
	}
	return nil
}

func (r *RealtimeClient) PublishSessionEvent(ctx context.Context, sessionID uuid.UUID, event string, payload map[string]interface{}) error {
	return r.PublishEvent(ctx, SessionTopic(sessionID), event, payload)
}

func SessionTopic(sessionID uuid.UUID) string {
	return fmt.Sprintf("session:%s", sessionID.String())
}

// Event names
const (
	EventSessionStarted  = "session_started"
	EventSessionEnded    = "session_ended"
	EventSlidesPublished = "slides_published"
)

// Event payloads
func SessionStartedPayload(sessionID uuid.UUID, startTime time.Time) map[string]interface{} {
	return map[string]interface{}{
		"session_id": sessionID.String(),
		"status":     "active",
		"start_time": startTime.UTC().Format(time.RFC3339),
	}
}

func SessionEndedPayload(sessionID uuid.UUID) map[string]interface{} {
	return map[string]interface{}{
		"session_id": sessionID.String(),
		"status":     "ended",
	}
}

func SlidesPublishedPayload(sessionID string, totalPages int, imageURLs []string) map[string]interface{} {
	return map[string]interface{}{
		"session_id":  sessionID,
		"total_pages": totalPages,
		"image_urls":  imageURLs,
	}
}
