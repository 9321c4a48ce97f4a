package models

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

const (
	SessionStatusNotStarted = "not_started"
	SessionStatusActive     = "active"
	SessionStatusEnded      = "ended"
)

// LiveSession is a presentation session owned by a user. StartTime is null
// until the session is started and never changes afterwards.
type LiveSession struct {
	ID        uuid.UUID
	Title     string
	UserID    uuid.UUID
	StartTime sql.NullTime
	Status    string
	EndedAt   sql.NullTime
	CreatedAt time.Time
}

func (s *LiveSession) Started() bool {
	return s.StartTime.Valid
}
