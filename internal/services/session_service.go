package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"slidecast-backend/internal/config"
	"slidecast-backend/internal/models"
	"slidecast-backend/internal/supabase"
)

var (
	ErrSessionAlreadyStarted = fmt.Errorf("%w: session already started", models.ErrConflict)
	ErrSessionNotStarted     = fmt.Errorf("%w: session not started", models.ErrConflict)
	ErrSessionAlreadyEnded   = fmt.Errorf("%w: session already ended", models.ErrConflict)
	ErrSessionNotFound       = fmt.Errorf("%w: session does not exist", models.ErrNotFound)
)

const eventTimeout = 5 * time.Second

type SessionStore interface {
	CreateSession(ctx context.Context, title string, userID uuid.UUID) (*models.LiveSession, error)
	GetSession(ctx context.Context, sessionID uuid.UUID) (*models.LiveSession, error)
	ListSessions(ctx context.Context) ([]models.LiveSession, error)
	MarkSessionStarted(ctx context.Context, sessionID uuid.UUID) (*models.LiveSession, bool, error)
	MarkSessionEnded(ctx context.Context, sessionID uuid.UUID) (*models.LiveSession, bool, error)
}

// EventPublisher broadcasts session events to connected audiences.
type EventPublisher interface {
	PublishSessionEvent(ctx context.Context, sessionID uuid.UUID, event string, payload map[string]interface{}) error
}

type SessionService struct {
	store   SessionStore
	events  EventPublisher
	endMode string
	logger  zerolog.Logger
}

// NewSessionService wires the registry. events may be nil when realtime is disabled.
func NewSessionService(store SessionStore, events EventPublisher, endMode string, logger zerolog.Logger) *SessionService {
	if endMode == "" {
		endMode = config.SessionEndAdvisory
	}
	return &SessionService{
		store:   store,
		events:  events,
		endMode: endMode,
		logger:  logger.With().Str("component", "sessions").Logger(),
	}
}

func (s *SessionService) CreateSession(ctx context.Context, title string, ownerID string) (*models.LiveSession, error) {
	userID, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid user id", models.ErrUnauthorized)
	}
	return s.store.CreateSession(ctx, title, userID)
}

func (s *SessionService) ListSessions(ctx context.Context) ([]models.LiveSession, error) {
	return s.store.ListSessions(ctx)
}

// StartSession moves a session from not started to active exactly once. The
// store performs the conditional update; the lookup afterwards only explains
// why nothing matched.
func (s *SessionService) StartSession(ctx context.Context, id string) (*models.LiveSession, error) {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	session, ok, err := s.store.MarkSessionStarted(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		if _, err := s.lookup(ctx, sessionID); err != nil {
			return nil, err
		}
		return nil, ErrSessionAlreadyStarted
	}

	s.publish(sessionID, supabase.EventSessionStarted, supabase.SessionStartedPayload(sessionID, session.StartTime.Time))
	return session, nil
}

// EndSession checks that the session exists and was started. In persist mode
// it also records the end; in advisory mode the store is left untouched.
func (s *SessionService) EndSession(ctx context.Context, id string) (*models.LiveSession, error) {
	sessionID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrSessionNotFound
	}

	session, err := s.lookup(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !session.Started() {
		return nil, ErrSessionNotStarted
	}

	if s.endMode == config.SessionEndPersist {
		ended, ok, err := s.store.MarkSessionEnded(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, ErrSessionAlreadyEnded
		}
		session = ended
	}

	s.publish(sessionID, supabase.EventSessionEnded, supabase.SessionEndedPayload(sessionID))
	return session, nil
}

func (s *SessionService) lookup(ctx context.Context, sessionID uuid.UUID) (*models.LiveSession, error) {
	session, err := s.store.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	return session, nil
}

// publish is fire and forget; a failed broadcast never fails the request.
func (s *SessionService) publish(sessionID uuid.UUID, event string, payload map[string]interface{}) {
	if s.events == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		if err := s.events.PublishSessionEvent(ctx, sessionID, event, payload); err != nil {
			s.logger.Warn().Err(err).Str("session_id", sessionID.String()).Str("event", event).Msg("failed to publish event")
		}
	}()
}
