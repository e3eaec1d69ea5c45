package config_test

import (
	"testing"
	"time"

	"github.com/TechTeamScibotix/iqautodeals-sync/internal/config"
)

func setRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/iqad")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
}

func TestLoad_RequiredVariables(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("REDIS_URL", "redis://localhost:6379")
	if _, err := config.Load(); err == nil {
		t.Error("Load without DATABASE_URL expected error, got nil")
	}

	t.Setenv("DATABASE_URL", "postgres://localhost/iqad")
	t.Setenv("REDIS_URL", "")
	if _, err := config.Load(); err == nil {
		t.Error("Load without REDIS_URL expected error, got nil")
	}
}

func TestLoad_Defaults(t *testing.T) {
	setRequired(t)

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.SyncIntervalHours != 6 {
		t.Errorf("SyncIntervalHours = %d, want 6", cfg.SyncIntervalHours)
	}
	if cfg.DescriptionDelay != 1500*time.Millisecond {
		t.Errorf("DescriptionDelay = %v, want 1.5s", cfg.DescriptionDelay)
	}
	if cfg.PhotoWorkers != 6 {
		t.Errorf("PhotoWorkers = %d, want 6", cfg.PhotoWorkers)
	}
	if cfg.GeminiModel == "" {
		t.Error("GeminiModel default missing")
	}
	if len(cfg.SFTPKexAlgorithms) != 0 {
		t.Errorf("SFTPKexAlgorithms default should be empty, got %v", cfg.SFTPKexAlgorithms)
	}
}

func TestLoad_AlgorithmAllowLists(t *testing.T) {
	setRequired(t)
	t.Setenv("SFTP_KEX_ALGORITHMS", "diffie-hellman-group14-sha1, diffie-hellman-group-exchange-sha256")
	t.Setenv("SFTP_HOST_KEY_ALGORITHMS", "ssh-rsa")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}

	if len(cfg.SFTPKexAlgorithms) != 2 || cfg.SFTPKexAlgorithms[1] != "diffie-hellman-group-exchange-sha256" {
		t.Errorf("SFTPKexAlgorithms = %v", cfg.SFTPKexAlgorithms)
	}
	if len(cfg.SFTPHostKeyAlgorithms) != 1 || cfg.SFTPHostKeyAlgorithms[0] != "ssh-rsa" {
		t.Errorf("SFTPHostKeyAlgorithms = %v", cfg.SFTPHostKeyAlgorithms)
	}
}

func TestLoad_InvalidNumerics(t *testing.T) {
	cases := []struct{ key, val string }{
		{"SYNC_INTERVAL_HOURS", "zero"},
		{"SYNC_INTERVAL_HOURS", "0"},
		{"DESCRIPTION_DELAY_MS", "-5"},
		{"PHOTO_WORKERS", "many"},
		{"SFTP_TIMEOUT_SECONDS", "0"},
	}
	for _, c := range cases {
		setRequired(t)
		t.Setenv(c.key, c.val)
		if _, err := config.Load(); err == nil {
			t.Errorf("Load with %s=%q expected error, got nil", c.key, c.val)
		}
		t.Setenv(c.key, "")
	}
}

func TestLoad_ClampsPhotoWorkers(t *testing.T) {
	setRequired(t)
	t.Setenv("PHOTO_WORKERS", "500")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if cfg.PhotoWorkers != 16 {
		t.Errorf("PhotoWorkers = %d, want clamped to 16", cfg.PhotoWorkers)
	}
}

func TestLoad_TrimsPublicBaseURL(t *testing.T) {
	setRequired(t)
	t.Setenv("S3_PUBLIC_BASE_URL", "https://cdn.iqautodeals.com/")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned unexpected error: %v", err)
	}
	if cfg.S3PublicBaseURL != "https://cdn.iqautodeals.com" {
		t.Errorf("S3PublicBaseURL = %q, trailing slash should be trimmed", cfg.S3PublicBaseURL)
	}
}
