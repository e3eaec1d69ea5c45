package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/TechTeamScibotix/iqautodeals-sync/internal/feed"
	"github.com/TechTeamScibotix/iqautodeals-sync/internal/model"
)

// Dealers is the slice of the dealer store the runner needs.
type Dealers interface {
	GetByDealerID(ctx context.Context, dealerID string) (*model.DealerFeedConfig, error)
	WriteSyncStatus(ctx context.Context, configID string, ok bool, message string)
}

// ActiveDealers lists the feed configs a scheduled sweep should run.
type ActiveDealers interface {
	GetActive(ctx context.Context) ([]model.DealerFeedConfig, error)
}

// Fetcher retrieves the raw feed file for one dealer endpoint.
type Fetcher interface {
	Fetch(ctx context.Context, remotePath string) ([]byte, error)
}

// FetcherFactory builds a single-use Fetcher from a dealer's transport
// settings. Indirection keeps the runner testable without a live SFTP server.
type FetcherFactory func(cfg model.DealerFeedConfig) Fetcher

// Runner executes one full sync run for one dealer: lock, fetch, parse,
// reconcile, report. It holds no state between runs.
type Runner struct {
	dealers    Dealers
	engine     *Engine
	newFetcher FetcherFactory
	lock       *runLock
	log        zerolog.Logger
}

// NewRunner wires a Runner. rdb may be nil, which disables run locking.
func NewRunner(dealers Dealers, engine *Engine, newFetcher FetcherFactory, rdb *redis.Client, lockTTL time.Duration, log zerolog.Logger) *Runner {
	return &Runner{
		dealers:    dealers,
		engine:     engine,
		newFetcher: newFetcher,
		lock:       newRunLock(rdb, lockTTL),
		log:        log,
	}
}

// Run performs one sync run for a dealer and always reports its outcome onto
// the dealer's config row — success or failure, the dashboard never sees
// silence. Run-level failures return a result with Success=false alongside
// the error; a lock conflict returns ErrRunInProgress and writes nothing,
// since the in-flight run owns the status.
func (r *Runner) Run(ctx context.Context, dealerID string) (*model.SyncResult, error) {
	started := time.Now()
	r.log.Info().Str("dealer", dealerID).Msg("sync run starting")

	release, err := r.lock.acquire(ctx, dealerID)
	if err != nil {
		return nil, err
	}
	defer release()

	cfg, err := r.dealers.GetByDealerID(ctx, dealerID)
	if err != nil {
		// No config row means nowhere to report; the caller gets the error.
		return r.failedResult(dealerID, "", started, err), err
	}

	adapter, err := feed.ForKind(cfg.FeedKind)
	if err != nil {
		return r.reportFailure(ctx, cfg, started, err), err
	}

	feedPath := adapter.FeedPath(*cfg)
	raw, err := r.newFetcher(*cfg).Fetch(ctx, feedPath)
	if err != nil {
		return r.reportFailure(ctx, cfg, started, err), err
	}

	records, err := feed.ParseCSV(raw)
	if err != nil {
		return r.reportFailure(ctx, cfg, started, err), err
	}

	// Row-to-record mapping failures are record-level: collect and continue.
	mapped := make([]model.FeedVehicle, 0, len(records))
	var mapErrors []string
	for i, rec := range records {
		fv, err := adapter.Map(rec)
		if err != nil {
			mapErrors = append(mapErrors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		mapped = append(mapped, fv)
	}

	result, err := r.engine.Reconcile(ctx, dealerID, feedPath, mapped)
	if err != nil {
		return r.reportFailure(ctx, cfg, started, err), err
	}

	result.TotalInFeed = len(records)
	result.Errors = append(mapErrors, result.Errors...)
	if result.Errors == nil {
		result.Errors = []string{} // serialized as [], not null
	}
	result.DurationMs = time.Since(started).Milliseconds()

	msg := summaryMessage(result)
	r.dealers.WriteSyncStatus(ctx, cfg.ID, result.Success, msg)

	r.log.Info().
		Str("dealer", dealerID).
		Int("total", result.TotalInFeed).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("markedSold", result.MarkedSold).
		Int("errors", len(result.Errors)).
		Int64("durationMs", result.DurationMs).
		Msg("sync run complete")

	return result, nil
}

// reportFailure writes a failed status for a run-level error and returns the
// failed result. The status write is best-effort inside WriteSyncStatus.
func (r *Runner) reportFailure(ctx context.Context, cfg *model.DealerFeedConfig, started time.Time, cause error) *model.SyncResult {
	r.log.Error().Err(cause).Str("dealer", cfg.DealerID).Msg("sync run failed")
	r.dealers.WriteSyncStatus(ctx, cfg.ID, false, "sync failed: "+cause.Error())
	return r.failedResult(cfg.DealerID, cfg.FeedPath, started, cause)
}

func (r *Runner) failedResult(dealerID, feedID string, started time.Time, cause error) *model.SyncResult {
	return &model.SyncResult{
		Success:    false,
		DealerID:   dealerID,
		FeedID:     feedID,
		Errors:     []string{cause.Error()},
		DurationMs: time.Since(started).Milliseconds(),
	}
}

// summaryMessage renders the dashboard-facing outcome line. Record-level
// partial failures read differently from run-level failures so operators know
// whether to fix credentials or individual listings.
func summaryMessage(res *model.SyncResult) string {
	if !res.Success {
		if len(res.Errors) > 0 {
			return "sync failed: " + res.Errors[len(res.Errors)-1]
		}
		return "sync failed"
	}
	msg := fmt.Sprintf("synced %d vehicles: %d created, %d updated, %d marked sold",
		res.TotalInFeed, res.Created, res.Updated, res.MarkedSold)
	if n := len(res.Errors); n > 0 {
		msg += fmt.Sprintf(" (%d record errors)", n)
	}
	return msg
}
