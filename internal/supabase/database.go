package supabase

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"slidecast-backend/internal/models"
)

const uniqueViolation = "23505"

type DatabaseClient struct {
	db *sql.DB
}

func NewDatabaseClient(connectionString string) (*DatabaseClient, error) {
	db, err := sql.Open("postgres", connectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DatabaseClient{db: db}, nil
}

// DB exposes the pool for the migrator.
func (d *DatabaseClient) DB() *sql.DB {
	return d.db
}

func (d *DatabaseClient) CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	var user models.User
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, email, username, password_hash, created_at
	`, email, username, passwordHash).Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return nil, fmt.Errorf("%w: email or username already exists", models.ErrConflict)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &user, nil
}

func (d *DatabaseClient) FindUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	return d.findUser(ctx, `
		SELECT id, email, username, password_hash, created_at
		FROM users
		WHERE email = $1 OR username = $2
		LIMIT 1
	`, email, username)
}

func (d *DatabaseClient) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return d.findUser(ctx, `
		SELECT id, email, username, password_hash, created_at
		FROM users
		WHERE email = $1
	`, email)
}

func (d *DatabaseClient) findUser(ctx context.Context, query string, args ...any) (*models.User, error) {
	var user models.User
	err := d.db.QueryRowContext(ctx, query, args...).Scan(
		&user.ID, &user.Email, &user.Username, &user.PasswordHash, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (d *DatabaseClient) CreateSession(ctx context.Context, title string, userID uuid.UUID) (*models.LiveSession, error) {
	var session models.LiveSession
	err := d.db.QueryRowContext(ctx, `
		INSERT INTO live_sessions (title, user_id, status)
		VALUES ($1, $2, $3)
		RETURNING id, title, user_id, start_time, status, ended_at, created_at
	`, title, userID, models.SessionStatusNotStarted).Scan(
		&session.ID, &session.Title, &session.UserID, &session.StartTime,
		&session.Status, &session.EndedAt, &session.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return &session, nil
}

func (d *DatabaseClient) GetSession(ctx context.Context, sessionID uuid.UUID) (*models.LiveSession, error) {
	var session models.LiveSession
	err := d.db.QueryRowContext(ctx, `
		SELECT id, title, user_id, start_time, status, ended_at, created_at
		FROM live_sessions
		WHERE id = $1
	`, sessionID).Scan(
		&session.ID, &session.Title, &session.UserID, &session.StartTime,
		&session.Status, &session.EndedAt, &session.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: session", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &session, nil
}

func (d *DatabaseClient) ListSessions(ctx context.Context) ([]models.LiveSession, error) {
	rows, err := d.db.QueryContext(ctx, `
		SELECT id, title, user_id, start_time, status, ended_at, created_at
		FROM live_sessions
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]models.LiveSession, 0)
	for rows.Next() {
		var session models.LiveSession
		err := rows.Scan(
			&session.ID, &session.Title, &session.UserID, &session.StartTime,
			&session.Status, &session.EndedAt, &session.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	return sessions, nil
}

// MarkSessionStarted sets start_time only while it is still null. It reports
// false when no row matched, which covers both unknown and already started ids.
func (d *DatabaseClient) MarkSessionStarted(ctx context.Context, sessionID uuid.UUID) (*models.LiveSession, bool, error) {
	var session models.LiveSession
	err := d.db.QueryRowContext(ctx, `
		UPDATE live_sessions
		SET start_time = NOW(), status = $2
		WHERE id = $1 AND start_time IS NULL
		RETURNING id, title, user_id, start_time, status, ended_at, created_at
	`, sessionID, models.SessionStatusActive).Scan(
		&session.ID, &session.Title, &session.UserID, &session.StartTime,
		&session.Status, &session.EndedAt, &session.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to start session: %w", err)
	}
	return &session, true, nil
}

// MarkSessionEnded moves an active session to ended. Like MarkSessionStarted it
// reports false when the precondition did not hold.
func (d *DatabaseClient) MarkSessionEnded(ctx context.Context, sessionID uuid.UUID) (*models.LiveSession, bool, error) {
	var session models.LiveSession
	err := d.db.QueryRowContext(ctx, `
		UPDATE live_sessions
		SET status = $2, ended_at = NOW()
		WHERE id = $1 AND start_time IS NOT NULL AND status <> $2
		RETURNING id, title, user_id, start_time, status, ended_at, created_at
	`, sessionID, models.SessionStatusEnded).Scan(
		&session.ID, &session.Title, &session.UserID, &session.StartTime,
		&session.Status, &session.EndedAt, &session.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to end session: %w", err)
	}
	return &session, true, nil
}

func (d *DatabaseClient) Close() error {
	return d.db.Close()
}
