package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Lawstore connection (persistence sink for sections and subunits)
	LawstoreURL    string
	LawstoreAPIKey string

	// Auth
	StatsegAPIKey string

	// Worker pool
	WorkerCount        int
	MaxQueueSize       int
	MaxConcurrentStore int

	// Upload limits
	MaxUploadBytes int64

	// Segmentation
	MaxExpandDepth      int  // Verifier token-expansion bound
	FallbackUnsegmented bool // store original text when verification fails

	// Job state
	JobTTL time.Duration

	// US Code bulk source
	USCDownloadPage string

	// PDF
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8091"),

		LawstoreURL:    envOr("LAWSTORE_URL", "http://localhost:8080"),
		LawstoreAPIKey: os.Getenv("LAWSTORE_API_KEY"),

		StatsegAPIKey: os.Getenv("STATSEG_API_KEY"),

		WorkerCount:        envInt("WORKER_COUNT", 4),
		MaxQueueSize:       envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentStore: envInt("MAX_CONCURRENT_STORE", 10),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		MaxExpandDepth:      envInt("MAX_EXPAND_DEPTH", 10),
		FallbackUnsegmented: envBool("FALLBACK_UNSEGMENTED", true),

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		USCDownloadPage: envOr("USC_DOWNLOAD_PAGE", "https://uscode.house.gov/download/download.shtml"),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentStore <= 0 {
		cfg.MaxConcurrentStore = 10
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.MaxExpandDepth <= 0 {
		cfg.MaxExpandDepth = 10
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.LawstoreAPIKey == "" {
		return fmt.Errorf("LAWSTORE_API_KEY is required")
	}
	if c.StatsegAPIKey == "" {
		return fmt.Errorf("STATSEG_API_KEY is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
