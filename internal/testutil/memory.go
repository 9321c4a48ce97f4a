// Package testutil holds in-memory stand-ins for the stores, object storage and
// rasterizer, plus Docker-backed fixtures for integration tests. For tests only.
package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"slidecast-backend/internal/models"
)

// MemoryUsers enforces unique email and username like the users table does.
type MemoryUsers struct {
	mu      sync.Mutex
	users   []models.User
	creates int
}

// Users returns a copy of every stored user in insertion order.
func (m *MemoryUsers) Users() []models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.User(nil), m.users...)
}

// Creates counts successful inserts.
func (m *MemoryUsers) Creates() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.creates
}

func (m *MemoryUsers) CreateUser(ctx context.Context, email, username, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email || u.Username == username {
			return nil, fmt.Errorf("%w: duplicate", models.ErrConflict)
		}
	}
	m.creates++
	u := models.User{ID: uuid.New(), Email: email, Username: username, PasswordHash: passwordHash, CreatedAt: time.Now()}
	m.users = append(m.users, u)
	return &u, nil
}

func (m *MemoryUsers) FindUserByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email || u.Username == username {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

func (m *MemoryUsers) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, models.ErrNotFound
}

type MemorySessions struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*models.LiveSession
}

func NewMemorySessions() *MemorySessions {
	return &MemorySessions{sessions: make(map[uuid.UUID]*models.LiveSession)}
}

func (m *MemorySessions) CreateSession(ctx context.Context, title string, userID uuid.UUID) (*models.LiveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &models.LiveSession{ID: uuid.New(), Title: title, UserID: userID, Status: models.SessionStatusNotStarted, CreatedAt: time.Now()}
	m.sessions[s.ID] = s
	cp := *s
	return &cp, nil
}

func (m *MemorySessions) GetSession(ctx context.Context, id uuid.UUID) (*models.LiveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *MemorySessions) ListSessions(ctx context.Context) ([]models.LiveSession, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.LiveSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		out = append(out, *s)
	}
	return out, nil
}

func (m *MemorySessions) MarkSessionStarted(ctx context.Context, id uuid.UUID) (*models.LiveSession, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || s.StartTime.Valid {
		return nil, false, nil
	}
	s.StartTime = sql.NullTime{Time: time.Now(), Valid: true}
	s.Status = models.SessionStatusActive
	cp := *s
	return &cp, true, nil
}

func (m *MemorySessions) MarkSessionEnded(ctx context.Context, id uuid.UUID) (*models.LiveSession, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok || !s.StartTime.Valid || s.Status == models.SessionStatusEnded {
		return nil, false, nil
	}
	s.Status = models.SessionStatusEnded
	s.EndedAt = sql.NullTime{Time: time.Now(), Valid: true}
	cp := *s
	return &cp, true, nil
}

// Event is what RecordingEvents captured for one publish call.
type Event struct {
	Topic string
	Name  string
}

// RecordingEvents satisfies both publisher shapes used by the services. C is
// buffered so callers that publish asynchronously never block.
type RecordingEvents struct {
	C chan Event
}

func NewRecordingEvents() *RecordingEvents {
	return &RecordingEvents{C: make(chan Event, 16)}
}

func (r *RecordingEvents) PublishSessionEvent(ctx context.Context, id uuid.UUID, name string, payload map[string]interface{}) error {
	r.C <- Event{Topic: "session:" + id.String(), Name: name}
	return nil
}

func (r *RecordingEvents) PublishEvent(ctx context.Context, topic string, name string, payload map[string]interface{}) error {
	r.C <- Event{Topic: topic, Name: name}
	return nil
}

type FakeRasterizer struct {
	Pages [][]byte
	Err   error
}

func (f *FakeRasterizer) Rasterize(ctx context.Context, data []byte) ([][]byte, error) {
	return f.Pages, f.Err
}

func PagesOf(n int) [][]byte {
	out := make([][]byte, n)
	for i := range out {
		out[i] = []byte(fmt.Sprintf("png-%d", i+1))
	}
	return out
}

// MemoryStore records uploads and the peak number running at once. Set Delay
// and Fail before handing it to the code under test.
type MemoryStore struct {
	Delay time.Duration
	Fail  map[string]bool

	mu          sync.Mutex
	objects     map[string][]byte
	uploads     int
	inFlight    int
	maxInFlight int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte), Fail: make(map[string]bool)}
}

func (m *MemoryStore) Object(path string) []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.objects[path]
}

func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

func (m *MemoryStore) Uploads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.uploads
}

func (m *MemoryStore) MaxInFlight() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxInFlight
}

func (m *MemoryStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	m.mu.Lock()
	m.uploads++
	m.inFlight++
	m.maxInFlight = max(m.maxInFlight, m.inFlight)
	fail := m.Fail[path]
	m.mu.Unlock()

	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.inFlight--
	if fail {
		return fmt.Errorf("upload of %s rejected", path)
	}
	m.objects[path] = data
	return nil
}

func (m *MemoryStore) PublicURL(path string) string {
	return "https://cdn.test/images/" + path
}
