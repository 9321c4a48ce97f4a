package models

import "time"

type MessageResponse struct {
	Message string `json:"message"`
}

// MsgResponse carries the short "msg" field some endpoints answer with.
type MsgResponse struct {
	Msg string `json:"msg"`
}

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationErrorResponse struct {
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors"`
}

type SignupResponse struct {
	Message  string `json:"message"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

type SigninResponse struct {
	Token  string `json:"token"`
	UserID string `json:"userId"`
}

type CreateSessionResponse struct {
	SessionID string `json:"sessionId"`
}

type SessionSummary struct {
	SessionID string     `json:"sessionId"`
	Title     string     `json:"title"`
	StartTime *time.Time `json:"startTime"`
	Status    string     `json:"status"`
}

// PageResult is the outcome of publishing a single deck page. URL is empty
// and Error is set when the upload failed.
type PageResult struct {
	Page  int    `json:"page"`
	Path  string `json:"path"`
	URL   string `json:"url,omitempty"`
	Error string `json:"error,omitempty"`
}

func (p PageResult) Published() bool {
	return p.Error == "" && p.URL != ""
}

type SlidesResponse struct {
	Message    string       `json:"message"`
	TotalPages int          `json:"totalPages"`
	ImageURLs  []string     `json:"imageUrls"`
	Pages      []PageResult `json:"pages"`
}

type InternalErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

type HealthResponse struct {
	Status string `json:"status"`
}
