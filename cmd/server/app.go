package main

import (
	"context"
	"fmt"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"slidecast-backend/docs"
	"slidecast-backend/internal/config"
	"slidecast-backend/internal/database"
	"slidecast-backend/internal/handlers"
	"slidecast-backend/internal/logging"
	"slidecast-backend/internal/objectstore"
	"slidecast-backend/internal/pdf"
	"slidecast-backend/internal/security"
	"slidecast-backend/internal/services"
	"slidecast-backend/internal/supabase"
)

const serviceName = "slidecast-backend"

type app struct {
	cfg    *config.Config
	logger zerolog.Logger
}

func loadRuntime() (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := logging.New(logging.Options{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: serviceName,
	})

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Update Swagger docs with the public base URL
	if cfg.BaseURL != "" {
		if baseURL, err := url.Parse(cfg.BaseURL); err == nil && baseURL.Host != "" {
			docs.SwaggerInfo.Host = baseURL.Host
			if baseURL.Scheme == "https" {
				docs.SwaggerInfo.Schemes = []string{"https", "http"}
			} else {
				docs.SwaggerInfo.Schemes = []string{"http", "https"}
			}
		}
	}

	return &app{cfg: cfg, logger: logger}, nil
}

func openDatabase(rt *app) (*supabase.DatabaseClient, error) {
	db, err := supabase.NewDatabaseClient(rt.cfg.DatabaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database client: %w", err)
	}
	return db, nil
}

func runMigrations(ctx context.Context, rt *app, db *supabase.DatabaseClient) error {
	applied, err := database.NewMigrator(db.DB(), rt.logger).Run(ctx)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	rt.logger.Info().Strs("applied", applied).Msg("migrations completed")
	return nil
}

// buildRouter wires stores, storage and realtime into the services and mounts
// them on a router.
func buildRouter(ctx context.Context, rt *app, db *supabase.DatabaseClient) (*gin.Engine, error) {
	cfg := rt.cfg

	var sb *supabase.Client
	if cfg.StorageBackend == config.StorageBackendSupabase || cfg.RealtimeEnabled {
		var err error
		sb, err = supabase.NewClient(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Supabase client: %w", err)
		}
	}

	store, err := newObjectStore(ctx, cfg, sb)
	if err != nil {
		return nil, err
	}

	// Left nil when realtime is off; a typed nil would defeat the services' nil checks.
	var (
		sessionEvents services.EventPublisher
		deckEvents    services.TopicPublisher
	)
	if cfg.RealtimeEnabled {
		realtime := sb.Realtime()
		sessionEvents = realtime
		deckEvents = realtime
	}

	tokens := security.NewTokenIssuer(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL)
	hasher := security.NewHasher(cfg.BcryptCost, cfg.HashWorkers)

	deck := services.NewDeckService(pdf.NewRasterizer(cfg.RasterDPI), store, deckEvents, services.DeckOptions{
		Concurrency:   cfg.UploadConcurrency,
		UploadTimeout: cfg.UploadTimeout,
		ScratchDir:    cfg.SlidesScratchDir,
	}, rt.logger)

	rt.logger.Info().
		Str("storage_backend", cfg.StorageBackend).
		Bool("realtime", cfg.RealtimeEnabled).
		Str("session_end_mode", cfg.SessionEndMode).
		Msg("services initialized")

	return handlers.NewRouter(handlers.RouterDeps{
		Accounts:       services.NewAccountService(db, hasher, tokens),
		Sessions:       services.NewSessionService(db, sessionEvents, cfg.SessionEndMode, rt.logger),
		Deck:           deck,
		Tokens:         tokens,
		MaxUploadBytes: cfg.MaxUploadBytes,
		Logger:         rt.logger,
	}), nil
}

func newObjectStore(ctx context.Context, cfg *config.Config, sb *supabase.Client) (services.ObjectStore, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendMinio:
		store, err := objectstore.NewMinioStore(ctx, objectstore.MinioOptions{
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			Bucket:        cfg.S3Bucket,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize object store: %w", err)
		}
		return store, nil
	default:
		return sb.Storage(cfg.SupabaseStorageBucket), nil
	}
}
