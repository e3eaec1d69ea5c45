// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration for the sync service.
//
// Per-dealer SFTP credentials live in dealer_feed_configs rows; only the
// deployment-wide algorithm allow-lists and timeouts are environment-driven,
// since operators pin those per environment, not per dealer.
type Config struct {
	Port              string
	DatabaseURL       string
	RedisURL          string
	SyncIntervalHours int // how often the cron job fires

	// Photo storage (S3-compatible).
	S3Endpoint        string
	S3AccessKeyID     string
	S3SecretAccessKey string
	S3Bucket          string
	S3UseSSL          bool
	S3PublicBaseURL   string

	// Description generation.
	GeminiAPIKey     string
	GeminiModel      string
	DescriptionDelay time.Duration // serialized gap between generative calls

	PhotoWorkers int

	// SFTP negotiation overrides. Empty slices mean library defaults; feed
	// servers running old SSH stacks need these pinned explicitly.
	SFTPKexAlgorithms     []string
	SFTPHostKeyAlgorithms []string
	SFTPCiphers           []string
	SFTPTimeout           time.Duration

	RunLockTTL time.Duration
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	interval := 6
	if s := os.Getenv("SYNC_INTERVAL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SYNC_INTERVAL_HOURS must be a positive integer, got %q", s)
		}
		interval = v
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.0-flash"
	}

	delayMs := 1500
	if s := os.Getenv("DESCRIPTION_DELAY_MS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return nil, fmt.Errorf("DESCRIPTION_DELAY_MS must be a non-negative integer, got %q", s)
		}
		delayMs = v
	}

	workers := 6
	if s := os.Getenv("PHOTO_WORKERS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("PHOTO_WORKERS must be an integer, got %q", s)
		}
		workers = v
	}
	if workers < 1 {
		workers = 1
	}
	if workers > 16 {
		workers = 16
	}

	sftpTimeout := 30
	if s := os.Getenv("SFTP_TIMEOUT_SECONDS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SFTP_TIMEOUT_SECONDS must be a positive integer, got %q", s)
		}
		sftpTimeout = v
	}

	lockTTL := 15
	if s := os.Getenv("RUN_LOCK_TTL_MINUTES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("RUN_LOCK_TTL_MINUTES must be a positive integer, got %q", s)
		}
		lockTTL = v
	}

	return &Config{
		Port:              port,
		DatabaseURL:       dbURL,
		RedisURL:          redisURL,
		SyncIntervalHours: interval,

		S3Endpoint:        os.Getenv("S3_ENDPOINT"),
		S3AccessKeyID:     os.Getenv("S3_ACCESS_KEY_ID"),
		S3SecretAccessKey: os.Getenv("S3_SECRET_ACCESS_KEY"),
		S3Bucket:          os.Getenv("S3_BUCKET"),
		S3UseSSL:          os.Getenv("S3_USE_SSL") == "true",
		S3PublicBaseURL:   strings.TrimSuffix(os.Getenv("S3_PUBLIC_BASE_URL"), "/"),

		GeminiAPIKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:      model,
		DescriptionDelay: time.Duration(delayMs) * time.Millisecond,

		PhotoWorkers: workers,

		SFTPKexAlgorithms:     splitList(os.Getenv("SFTP_KEX_ALGORITHMS")),
		SFTPHostKeyAlgorithms: splitList(os.Getenv("SFTP_HOST_KEY_ALGORITHMS")),
		SFTPCiphers:           splitList(os.Getenv("SFTP_CIPHERS")),
		SFTPTimeout:           time.Duration(sftpTimeout) * time.Second,

		RunLockTTL: time.Duration(lockTTL) * time.Minute,
	}, nil
}

// splitList parses a comma-separated allow-list, dropping empty entries.
func splitList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
