// Package config loads the immutable runtime configuration for the pipeline.
//
// Configuration is read once from the environment at startup (a .env file is
// honored when present) and passed explicitly into each component; nothing in
// the pipeline reads environment variables after Load returns.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// Artifact object names, one per tabular stage.
const (
	FileCollect   = "collected_articles.csv"
	FileExtract   = "extracted_articles.csv"
	FileTransform = "transformed_articles.csv"
	FileLoad      = "loaded_articles.csv"
)

// DefaultHTTPTimeout bounds every outbound page, feed, API and image request.
const DefaultHTTPTimeout = 10 * time.Second

// Config holds all runtime settings. Construct with Load and treat as
// read-only afterwards.
type Config struct {
	// MinIO connection.
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioSecure    bool

	// Stage buckets.
	BucketCollect   string
	BucketExtract   string
	BucketTransform string
	BucketLoad      string
	BucketImage     string

	// Postgres DSN for the reference/lookup sink. Empty disables DB loading.
	PostgresDSN string

	// SourcesFile is the YAML source-definition document.
	SourcesFile string

	HTTPTimeout time.Duration
	LogLevel    string
}

// Load reads configuration from the environment, loading .env first if one
// exists in the working directory.
func Load() (*Config, error) {
	// Missing .env is fine; explicit environment wins either way.
	_ = godotenv.Load()

	cfg := &Config{
		MinioEndpoint:   getenv("MINIO_ENDPOINT", "localhost:9000"),
		MinioAccessKey:  os.Getenv("MINIO_ROOT_USER"),
		MinioSecretKey:  os.Getenv("MINIO_ROOT_PASSWORD"),
		MinioSecure:     getenvBool("MINIO_SECURE", false),
		BucketCollect:   getenv("MINIO_BUCKET_COLLECT", "collect"),
		BucketExtract:   getenv("MINIO_BUCKET_EXTRACT", "extract"),
		BucketTransform: getenv("MINIO_BUCKET_TRANSFORM", "transform"),
		BucketLoad:      getenv("MINIO_BUCKET_LOAD", "load"),
		BucketImage:     getenv("MINIO_BUCKET_IMAGE", "image"),
		PostgresDSN:     buildPostgresDSN(),
		SourcesFile:     getenv("SOURCES_FILE", "config/sources.yaml"),
		HTTPTimeout:     DefaultHTTPTimeout,
		LogLevel:        getenv("LOG_LEVEL", "info"),
	}

	if timeout := os.Getenv("HTTP_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("parse HTTP_TIMEOUT: %w", err)
		}
		cfg.HTTPTimeout = d
	}

	return cfg, nil
}

// Summary logs the effective configuration with credentials redacted.
func (c *Config) Summary(log *zap.SugaredLogger) {
	log.Infow("configuration",
		"minio_endpoint", c.MinioEndpoint,
		"minio_secure", c.MinioSecure,
		"buckets", fmt.Sprintf("collect=%s extract=%s transform=%s load=%s image=%s",
			c.BucketCollect, c.BucketExtract, c.BucketTransform, c.BucketLoad, c.BucketImage),
		"postgres", redactDSN(c.PostgresDSN),
		"sources_file", c.SourcesFile,
		"http_timeout", c.HTTPTimeout,
	)
}

// buildPostgresDSN assembles a DSN from POSTGRES_* variables, or returns
// POSTGRES_DSN verbatim when set. Returns "" when the pieces are incomplete.
func buildPostgresDSN() string {
	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		return dsn
	}

	user := os.Getenv("POSTGRES_USER")
	pass := os.Getenv("POSTGRES_PASSWORD")
	db := os.Getenv("POSTGRES_DB")
	if user == "" || pass == "" || db == "" {
		return ""
	}

	host := getenv("POSTGRES_HOST", "postgres")
	port := getenv("POSTGRES_PORT", "5432")
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", user, pass, host, port, db)
}

func redactDSN(dsn string) string {
	if dsn == "" {
		return "not configured"
	}
	if at := strings.LastIndex(dsn, "@"); at >= 0 {
		return "postgres://***" + dsn[at:]
	}
	return "configured"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
