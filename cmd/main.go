// iqautodeals-sync — dealer inventory sync service
//
// Ingests dealer vehicle feeds (CSV over SFTP) and reconciles them against
// the vehicle catalog:
//   - POST /sync/{dealerId} — trigger one run, returns the SyncResult JSON
//   - cron sweep            — syncs every active dealer feed periodically
//
// Photo migration re-hosts feed images onto owned storage; description
// generation fills in listings that were never customized. Both degrade
// gracefully when their backing services are not configured.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/TechTeamScibotix/iqautodeals-sync/internal/config"
	"github.com/TechTeamScibotix/iqautodeals-sync/internal/db"
	"github.com/TechTeamScibotix/iqautodeals-sync/internal/describe"
	"github.com/TechTeamScibotix/iqautodeals-sync/internal/model"
	"github.com/TechTeamScibotix/iqautodeals-sync/internal/photos"
	"github.com/TechTeamScibotix/iqautodeals-sync/internal/scheduler"
	"github.com/TechTeamScibotix/iqautodeals-sync/internal/store"
	syncer "github.com/TechTeamScibotix/iqautodeals-sync/internal/sync"
	"github.com/TechTeamScibotix/iqautodeals-sync/internal/transport"
)

const version = "1.0.0"

func main() {
	_ = godotenv.Load() // optional .env for local development

	log := zerolog.New(os.Stderr).With().Timestamp().Str("service", "iqautodeals-sync").Logger()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config error")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	log.Info().Msg("postgres connected")

	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("redis connect failed")
	}
	defer rdb.Close()
	log.Info().Msg("redis connected")

	// Photo storage is optional: without credentials, source URLs pass through.
	var migrator *photos.Migrator
	if cfg.S3Endpoint != "" {
		migrator, err = photos.NewMigrator(photos.Options{
			Endpoint:        cfg.S3Endpoint,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UseSSL:          cfg.S3UseSSL,
			Bucket:          cfg.S3Bucket,
			PublicBaseURL:   cfg.S3PublicBaseURL,
			Workers:         cfg.PhotoWorkers,
		}, log)
		if err != nil {
			log.Fatal().Err(err).Msg("photo storage init failed")
		}
		if err := migrator.CheckBucket(ctx); err != nil {
			log.Fatal().Err(err).Msg("photo bucket check failed")
		}
		log.Info().Str("bucket", cfg.S3Bucket).Msg("photo storage ready")
	} else {
		log.Warn().Msg("S3_ENDPOINT not set, photo migration disabled")
	}

	// Description generation is optional the same way.
	var gen describe.TextGenerator
	if cfg.GeminiAPIKey != "" {
		g, err := describe.NewGeminiGenerator(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			log.Fatal().Err(err).Msg("gemini client init failed")
		}
		gen = g
		log.Info().Str("model", cfg.GeminiModel).Msg("description generation ready")
	} else {
		log.Warn().Msg("GEMINI_API_KEY not set, description generation disabled")
	}
	orchestrator := describe.NewOrchestrator(gen, cfg.DescriptionDelay, log)

	dealers := store.NewDealerStore(pool, log)
	catalog := store.NewCatalogStore(pool)
	engine := syncer.NewEngine(catalog, photoMigrator(migrator), orchestrator, log)

	newFetcher := func(c model.DealerFeedConfig) syncer.Fetcher {
		return transport.NewClient(transport.Config{
			Host:              c.SFTPHost,
			Port:              c.SFTPPort,
			Username:          c.SFTPUsername,
			Password:          c.SFTPPassword,
			KeyExchanges:      cfg.SFTPKexAlgorithms,
			HostKeyAlgorithms: cfg.SFTPHostKeyAlgorithms,
			Ciphers:           cfg.SFTPCiphers,
			Timeout:           cfg.SFTPTimeout,
		}, log)
	}

	runner := syncer.NewRunner(dealers, engine, newFetcher, rdb, cfg.RunLockTTL, log)

	sched := scheduler.New(dealers, runner, cfg.SyncIntervalHours, log)
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("scheduler start failed")
	}
	defer sched.Stop()

	mux := http.NewServeMux()
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("POST /sync/{dealerId}", syncHandler(runner, log))

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Minute, // a full sync run answers on this request
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Str("version", version).Msg("listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("http server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
}

// photoMigrator adapts a possibly-nil *photos.Migrator to the engine's
// interface without smuggling a typed nil into it.
func photoMigrator(m *photos.Migrator) syncer.PhotoMigrator {
	if m == nil {
		return nil
	}
	return m
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status":  "ok",
		"service": "iqautodeals-sync",
		"version": version,
	})
}

// syncHandler triggers one run for /sync/{dealerId} and returns its result.
// Run-level failures still answer 200 with success=false in the body — the
// dashboard reads the result, not the status code. 409 marks a lock conflict,
// 404 an unknown dealer.
func syncHandler(runner *syncer.Runner, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealerID := r.PathValue("dealerId")
		if dealerID == "" {
			http.Error(w, "dealer id required", http.StatusBadRequest)
			return
		}

		result, err := runner.Run(r.Context(), dealerID)
		w.Header().Set("Content-Type", "application/json")

		switch {
		case errors.Is(err, syncer.ErrRunInProgress):
			w.WriteHeader(http.StatusConflict)
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
			return
		case errors.Is(err, store.ErrDealerNotFound):
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": fmt.Sprintf("no feed config for dealer %s", dealerID)})
			return
		}

		if result == nil {
			log.Error().Err(err).Str("dealer", dealerID).Msg("sync returned no result")
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(map[string]string{"error": "internal error"})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(result)
	}
}
