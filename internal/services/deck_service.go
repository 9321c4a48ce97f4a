package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"slidecast-backend/internal/models"
	"slidecast-backend/internal/supabase"
)

const pageContentType = "image/png"

// ErrNoImages means the document passed validation but produced no pages.
var ErrNoImages = errors.New("rasterizer produced no images")

var sessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,128}$`)

type Rasterizer interface {
	Rasterize(ctx context.Context, data []byte) ([][]byte, error)
}

// ObjectStore publishes page images. Upload must overwrite an existing object at path.
type ObjectStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	PublicURL(path string) string
}

// TopicPublisher broadcasts on an arbitrary topic; deck ids are not required to be UUIDs.
type TopicPublisher interface {
	PublishEvent(ctx context.Context, topic string, event string, payload map[string]interface{}) error
}

type DeckOptions struct {
	// Concurrency caps in-flight uploads; 0 uploads every page at once.
	Concurrency int
	// UploadTimeout bounds each page upload; 0 means no bound.
	UploadTimeout time.Duration
	// ScratchDir holds per-session local page files; empty disables local cleanup.
	ScratchDir string
}

type DeckResult struct {
	TotalPages int
	Pages      []models.PageResult
}

// ImageURLs returns the URLs of the pages that were published, in page order.
func (r *DeckResult) ImageURLs() []string {
	urls := make([]string, 0, len(r.Pages))
	for _, p := range r.Pages {
		if p.Published() {
			urls = append(urls, p.URL)
		}
	}
	return urls
}

type DeckService struct {
	rasterizer Rasterizer
	store      ObjectStore
	events     TopicPublisher
	opts       DeckOptions
	logger     zerolog.Logger
}

func NewDeckService(rasterizer Rasterizer, store ObjectStore, events TopicPublisher, opts DeckOptions, logger zerolog.Logger) *DeckService {
	return &DeckService{
		rasterizer: rasterizer,
		store:      store,
		events:     events,
		opts:       opts,
		logger:     logger.With().Str("component", "deck").Logger(),
	}
}

// PagePath is the object path of a 1-based page of a session's deck.
func PagePath(sessionID string, page int) string {
	return fmt.Sprintf("session/%s/page-%d.png", sessionID, page)
}

// Ingest rasterizes the document and publishes every page. Individual upload
// failures are recorded in the matching PageResult and never abort the others;
// only a failure to produce any page is returned as an error.
func (s *DeckService) Ingest(ctx context.Context, sessionID string, data []byte) (*DeckResult, error) {
	if !sessionIDPattern.MatchString(sessionID) {
		return nil, fmt.Errorf("%w: invalid session id", models.ErrValidation)
	}
	log := s.logger.With().Str("session_id", sessionID).Logger()

	var images [][]byte
	scratch := s.prepareScratch(sessionID, log)
	defer func() { s.cleanup(scratch, len(images), log) }()

	log.Info().Int("bytes", len(data)).Msg("rasterizing deck")
	images, err := s.rasterizer.Rasterize(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoImages, err)
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	log.Info().Int("pages", len(images)).Msg("deck rasterized")

	pages := s.publish(ctx, sessionID, images, log)

	result := &DeckResult{TotalPages: len(images), Pages: pages}
	s.announce(sessionID, result, log)
	return result, nil
}

func (s *DeckService) publish(ctx context.Context, sessionID string, images [][]byte, log zerolog.Logger) []models.PageResult {
	results := make([]models.PageResult, len(images))

	// Uploads outlive a disconnected client; each is bounded by UploadTimeout instead.
	base := context.WithoutCancel(ctx)

	var g errgroup.Group
	if s.opts.Concurrency > 0 {
		g.SetLimit(s.opts.Concurrency)
	}
	for i, img := range images {
		page := i + 1
		path := PagePath(sessionID, page)
		g.Go(func() error {
			results[i] = s.publishPage(base, page, path, img, log)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func (s *DeckService) publishPage(ctx context.Context, page int, path string, img []byte, log zerolog.Logger) models.PageResult {
	result := models.PageResult{Page: page, Path: path}

	if s.opts.UploadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.UploadTimeout)
		defer cancel()
	}

	if err := s.store.Upload(ctx, path, img, pageContentType); err != nil {
		log.Error().Err(err).Int("page", page).Msg("failed to upload page")
		result.Error = err.Error()
		return result
	}

	result.URL = s.store.PublicURL(path)
	return result
}

func (s *DeckService) prepareScratch(sessionID string, log zerolog.Logger) string {
	if s.opts.ScratchDir == "" {
		return ""
	}
	dir := filepath.Join(s.opts.ScratchDir, sessionID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		log.Warn().Err(err).Str("dir", dir).Msg("failed to create scratch directory")
		return ""
	}
	return dir
}

// cleanup removes local page files left in the scratch directory. Errors are
// logged only.
func (s *DeckService) cleanup(dir string, pages int, log zerolog.Logger) {
	if dir == "" {
		return
	}
	for page := 1; page <= pages; page++ {
		name := filepath.Join(dir, fmt.Sprintf("page-%d.png", page))
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Str("file", name).Msg("failed to remove local page")
		}
	}
	if err := os.Remove(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Debug().Err(err).Str("dir", dir).Msg("scratch directory not removed")
	}
}

func (s *DeckService) announce(sessionID string, result *DeckResult, log zerolog.Logger) {
	if s.events == nil {
		return
	}
	urls := result.ImageURLs()
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), eventTimeout)
		defer cancel()
		topic := "session:" + sessionID
		payload := supabase.SlidesPublishedPayload(sessionID, result.TotalPages, urls)
		if err := s.events.PublishEvent(ctx, topic, supabase.EventSlidesPublished, payload); err != nil {
			log.Warn().Err(err).Msg("failed to publish slides event")
		}
	}()
}
