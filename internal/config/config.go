package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageBackendSupabase = "supabase"
	StorageBackendMinio    = "minio"

	// SessionEndAdvisory validates the end request without writing anything.
	SessionEndAdvisory = "advisory"
	// SessionEndPersist marks the session as ended in the store.
	SessionEndPersist = "persist"
)

type Config struct {
	// Server
	Port            string        `mapstructure:"PORT"`
	Environment     string        `mapstructure:"ENVIRONMENT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
	// BaseURL is the public address advertised in the API docs.
	BaseURL string `mapstructure:"BASE_URL"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// Auth
	JWTSecret   string        `mapstructure:"JWT_SECRET"`
	JWTIssuer   string        `mapstructure:"JWT_ISSUER"`
	JWTTTL      time.Duration `mapstructure:"JWT_TTL"`
	BcryptCost  int           `mapstructure:"BCRYPT_COST"`
	HashWorkers int           `mapstructure:"HASH_WORKERS"`

	// Object storage
	StorageBackend string `mapstructure:"STORAGE_BACKEND"`

	SupabaseURL           string `mapstructure:"SUPABASE_URL"`
	SupabaseServiceKey    string `mapstructure:"SUPABASE_SERVICE_KEY"`
	SupabaseStorageBucket string `mapstructure:"SUPABASE_STORAGE_BUCKET"`
	RealtimeEnabled       bool   `mapstructure:"REALTIME_ENABLED"`

	S3Endpoint      string `mapstructure:"S3_ENDPOINT"`
	S3AccessKey     string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey     string `mapstructure:"S3_SECRET_KEY"`
	S3Bucket        string `mapstructure:"S3_BUCKET"`
	S3PublicBaseURL string `mapstructure:"S3_PUBLIC_BASE_URL"`

	// Slides
	MaxUploadBytes    int64         `mapstructure:"MAX_UPLOAD_BYTES"`
	RasterDPI         float64       `mapstructure:"RASTER_DPI"`
	UploadConcurrency int           `mapstructure:"UPLOAD_CONCURRENCY"`
	UploadTimeout     time.Duration `mapstructure:"UPLOAD_TIMEOUT"`
	SlidesScratchDir  string        `mapstructure:"SLIDES_SCRATCH_DIR"`

	// Sessions
	SessionEndMode string `mapstructure:"SESSION_END_MODE"`

	// Logging
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var keys = []string{
	"PORT", "ENVIRONMENT", "SHUTDOWN_TIMEOUT", "BASE_URL",
	"DATABASE_URL",
	"JWT_SECRET", "JWT_ISSUER", "JWT_TTL", "BCRYPT_COST", "HASH_WORKERS",
	"STORAGE_BACKEND",
	"SUPABASE_URL", "SUPABASE_SERVICE_KEY", "SUPABASE_STORAGE_BUCKET", "REALTIME_ENABLED",
	"S3_ENDPOINT", "S3_ACCESS_KEY", "S3_SECRET_KEY", "S3_BUCKET", "S3_PUBLIC_BASE_URL",
	"MAX_UPLOAD_BYTES", "RASTER_DPI", "UPLOAD_CONCURRENCY", "UPLOAD_TIMEOUT", "SLIDES_SCRATCH_DIR",
	"SESSION_END_MODE",
	"LOG_LEVEL", "LOG_FORMAT",
}

// Load reads .env (if present) and the environment, then validates the result.
// Environment variables win over .env entries.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // missing .env is fine

	v.AutomaticEnv()
	// Unmarshal only sees keys viper knows about; AutomaticEnv alone is not enough.
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	setDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("JWT_ISSUER", "slidecast")
	v.SetDefault("JWT_TTL", "24h")
	v.SetDefault("BCRYPT_COST", 10)
	v.SetDefault("HASH_WORKERS", runtime.GOMAXPROCS(0))

	v.SetDefault("STORAGE_BACKEND", StorageBackendSupabase)
	v.SetDefault("SUPABASE_STORAGE_BUCKET", "images")
	v.SetDefault("REALTIME_ENABLED", false)

	v.SetDefault("MAX_UPLOAD_BYTES", int64(50<<20))
	v.SetDefault("RASTER_DPI", 150.0)
	v.SetDefault("UPLOAD_CONCURRENCY", 0)
	v.SetDefault("UPLOAD_TIMEOUT", "60s")
	v.SetDefault("SLIDES_SCRATCH_DIR", filepath.Join(os.TempDir(), "slidecast"))

	v.SetDefault("SESSION_END_MODE", SessionEndAdvisory)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT is required")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.IsProduction() && len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes in production")
	}
	if c.JWTTTL <= 0 {
		return fmt.Errorf("JWT_TTL must be positive")
	}
	if c.BcryptCost < 4 || c.BcryptCost > 31 {
		return fmt.Errorf("BCRYPT_COST must be between 4 and 31")
	}

	switch c.StorageBackend {
	case StorageBackendSupabase:
		if c.SupabaseURL == "" {
			return fmt.Errorf("SUPABASE_URL is required")
		}
		if c.SupabaseServiceKey == "" {
			return fmt.Errorf("SUPABASE_SERVICE_KEY is required")
		}
		if c.SupabaseStorageBucket == "" {
			return fmt.Errorf("SUPABASE_STORAGE_BUCKET is required")
		}
	case StorageBackendMinio:
		if c.S3Endpoint == "" || c.S3AccessKey == "" || c.S3SecretKey == "" || c.S3Bucket == "" {
			return fmt.Errorf("S3_ENDPOINT, S3_ACCESS_KEY, S3_SECRET_KEY and S3_BUCKET are required for the minio backend")
		}
	default:
		return fmt.Errorf("unknown STORAGE_BACKEND %q", c.StorageBackend)
	}
	if c.RealtimeEnabled && (c.SupabaseURL == "" || c.SupabaseServiceKey == "") {
		return fmt.Errorf("REALTIME_ENABLED needs SUPABASE_URL and SUPABASE_SERVICE_KEY")
	}

	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive")
	}
	if c.RasterDPI < 36 || c.RasterDPI > 600 {
		return fmt.Errorf("RASTER_DPI must be between 36 and 600")
	}
	if c.UploadConcurrency < 0 {
		return fmt.Errorf("UPLOAD_CONCURRENCY must not be negative")
	}

	switch c.SessionEndMode {
	case SessionEndAdvisory, SessionEndPersist:
	default:
		return fmt.Errorf("SESSION_END_MODE must be %q or %q", SessionEndAdvisory, SessionEndPersist)
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
