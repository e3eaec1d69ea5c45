package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/TechTeamScibotix/iqautodeals-sync/internal/model"
)

// ErrDealerNotFound is returned when no feed config exists for a dealer.
var ErrDealerNotFound = fmt.Errorf("dealer feed config not found")

// DealerStore reads dealer feed configs and writes their last-sync outcome.
// Config rows themselves are owned by the dealer settings UI; this service
// only ever mutates the last_sync_* columns.
type DealerStore struct {
	pool *pgxpool.Pool
	log  zerolog.Logger
}

// NewDealerStore returns a configured DealerStore.
func NewDealerStore(pool *pgxpool.Pool, log zerolog.Logger) *DealerStore {
	return &DealerStore{pool: pool, log: log}
}

const dealerConfigColumns = `id, dealer_id, feed_kind, feed_path,
	sftp_host, sftp_port, sftp_username, sftp_password,
	is_active, last_sync_at, last_sync_ok, COALESCE(last_sync_msg, '')`

// GetByDealerID loads the feed config for one dealer.
func (s *DealerStore) GetByDealerID(ctx context.Context, dealerID string) (*model.DealerFeedConfig, error) {
	var c model.DealerFeedConfig
	err := s.pool.QueryRow(ctx,
		`SELECT `+dealerConfigColumns+`
		 FROM dealer_feed_configs
		 WHERE dealer_id = $1`,
		dealerID,
	).Scan(
		&c.ID, &c.DealerID, &c.FeedKind, &c.FeedPath,
		&c.SFTPHost, &c.SFTPPort, &c.SFTPUsername, &c.SFTPPassword,
		&c.IsActive, &c.LastSyncAt, &c.LastSyncOK, &c.LastSyncMsg,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrDealerNotFound
		}
		return nil, fmt.Errorf("get dealer config %s: %w", dealerID, err)
	}
	return &c, nil
}

// GetActive lists every active feed config, for the scheduler.
func (s *DealerStore) GetActive(ctx context.Context) ([]model.DealerFeedConfig, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+dealerConfigColumns+`
		 FROM dealer_feed_configs
		 WHERE is_active = true`,
	)
	if err != nil {
		return nil, fmt.Errorf("query active dealer configs: %w", err)
	}
	defer rows.Close()

	var configs []model.DealerFeedConfig
	for rows.Next() {
		var c model.DealerFeedConfig
		if err := rows.Scan(
			&c.ID, &c.DealerID, &c.FeedKind, &c.FeedPath,
			&c.SFTPHost, &c.SFTPPort, &c.SFTPUsername, &c.SFTPPassword,
			&c.IsActive, &c.LastSyncAt, &c.LastSyncOK, &c.LastSyncMsg,
		); err != nil {
			return nil, fmt.Errorf("scan dealer config: %w", err)
		}
		configs = append(configs, c)
	}
	return configs, rows.Err()
}

// WriteSyncStatus records a run's outcome on the config row. Best-effort:
// the dashboard must always have something to show, but a failed status
// write never overrides the run's own outcome, so failures are logged and
// swallowed.
func (s *DealerStore) WriteSyncStatus(ctx context.Context, configID string, ok bool, message string) {
	_, err := s.pool.Exec(ctx,
		`UPDATE dealer_feed_configs
		 SET last_sync_at = NOW(), last_sync_ok = $1, last_sync_msg = $2
		 WHERE id = $3`,
		ok, message, configID,
	)
	if err != nil {
		s.log.Warn().Err(err).Str("config", configID).Msg("sync status write failed")
	}
}
