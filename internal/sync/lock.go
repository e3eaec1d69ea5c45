package sync

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrRunInProgress means another sync for the same dealer holds the lock.
var ErrRunInProgress = fmt.Errorf("a sync run is already in progress for this dealer")

// runLock serializes sync runs per dealer via Redis SETNX. Nothing in the
// data model tolerates two overlapping runs for one dealer, so instead of
// documenting the assumption we enforce it. The TTL covers runners that die
// without releasing.
type runLock struct {
	rdb *redis.Client
	ttl time.Duration
}

func newRunLock(rdb *redis.Client, ttl time.Duration) *runLock {
	return &runLock{rdb: rdb, ttl: ttl}
}

// acquire takes the dealer's lock or fails fast with ErrRunInProgress.
// The returned release is safe to defer; release failures only shorten the
// lock to its TTL, so they are ignored.
func (l *runLock) acquire(ctx context.Context, dealerID string) (release func(), err error) {
	if l == nil || l.rdb == nil {
		return func() {}, nil
	}

	key := "sync:lock:" + dealerID
	ok, err := l.rdb.SetNX(ctx, key, time.Now().UTC().Format(time.RFC3339), l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !ok {
		return nil, ErrRunInProgress
	}

	return func() {
		// Release with a fresh context: the run's context may already be
		// cancelled by the time the deferred release fires.
		rctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = l.rdb.Del(rctx, key).Err()
	}, nil
}
