package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host               string
	Port               string
	RequestTimeout     time.Duration
	MaxRequestBodySize int64

	// Per-stage pipeline budgets
	EnhanceTimeout time.Duration
	ColorTimeout   time.Duration
	DetectTimeout  time.Duration

	// Image source backend: "http" or "azure"
	StorageBackend   string
	AzureAccountName string
	AzureAccountKey  string

	// History persistence: empty DatabaseURL selects the in-memory store
	DatabaseURL  string
	HistoryLimit int

	// ML detector toggle; when false the pipeline is rule-based only
	MLEnabled bool

	// Batch analysis concurrency
	BatchWorkers int
}

func (c *Config) ServerAddress() string {
	return net.JoinHostPort(strings.TrimSpace(c.Host), strings.TrimSpace(c.Port))
}

func LoadFromEnv() (*Config, error) {
	// Optional .env for local development; missing file is fine.
	_ = godotenv.Load()

	cfg := &Config{
		Host:               getEnvOrDefault("HOST", "0.0.0.0"),
		Port:               getEnvOrDefault("PORT", "8080"),
		RequestTimeout:     parseDurationOrDefault("REQUEST_TIMEOUT", 45*time.Second),
		MaxRequestBodySize: parseIntOrDefault("MAX_REQUEST_BODY_SIZE", 10*1024*1024),
		EnhanceTimeout:     parseDurationOrDefault("ENHANCE_TIMEOUT", 10*time.Second),
		ColorTimeout:       parseDurationOrDefault("COLOR_TIMEOUT", 5*time.Second),
		DetectTimeout:      parseDurationOrDefault("DETECT_TIMEOUT", 15*time.Second),
		StorageBackend:     getEnvOrDefault("STORAGE_BACKEND", "http"),
		AzureAccountName:   os.Getenv("AZURE_ACCOUNT_NAME"),
		AzureAccountKey:    os.Getenv("AZURE_ACCOUNT_KEY"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		HistoryLimit:       int(parseIntOrDefault("HISTORY_LIMIT", 50)),
		MLEnabled:          getEnvOrDefault("ML_ENABLED", "false") == "true",
		BatchWorkers:       int(parseIntOrDefault("BATCH_WORKERS", 0)),
	}

	p, err := strconv.Atoi(strings.TrimSpace(cfg.Port))
	if err != nil || p < 1 || p > 65535 {
		return nil, fmt.Errorf("invalid PORT: %q", cfg.Port)
	}
	if cfg.MaxRequestBodySize <= 0 {
		return nil, fmt.Errorf("MAX_REQUEST_BODY_SIZE must be > 0 (got %d)", cfg.MaxRequestBodySize)
	}
	if cfg.EnhanceTimeout <= 0 || cfg.ColorTimeout <= 0 || cfg.DetectTimeout <= 0 {
		return nil, fmt.Errorf("stage timeouts must be > 0 (got enhance=%s, color=%s, detect=%s)",
			cfg.EnhanceTimeout, cfg.ColorTimeout, cfg.DetectTimeout)
	}
	switch cfg.StorageBackend {
	case "http":
	case "azure":
		if cfg.AzureAccountName == "" || cfg.AzureAccountKey == "" {
			return nil, fmt.Errorf("azure backend requires AZURE_ACCOUNT_NAME and AZURE_ACCOUNT_KEY")
		}
	default:
		return nil, fmt.Errorf("unsupported STORAGE_BACKEND: %q", cfg.StorageBackend)
	}
	if cfg.HistoryLimit < 1 {
		return nil, fmt.Errorf("HISTORY_LIMIT must be >= 1 (got %d)", cfg.HistoryLimit)
	}
	return cfg, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(strings.TrimSpace(value)); err == nil && duration > 0 {
			return duration
		}
	}
	return defaultValue
}

func parseIntOrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}
