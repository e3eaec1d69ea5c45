// Package photos re-hosts externally served vehicle images onto owned
// S3-compatible storage.
package photos

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Options configures the storage side of the migrator.
type Options struct {
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	UseSSL          bool
	Bucket          string
	PublicBaseURL   string // base for served URLs, e.g. https://cdn.iqautodeals.com
	Workers         int    // bounded fetch/upload concurrency per vehicle
}

// Migrator copies feed-hosted photos into owned storage. Migration is
// best-effort end to end: any failure falls back to the original URL so a
// vehicle never loses its photos over a storage hiccup.
type Migrator struct {
	client *minio.Client
	opts   Options
	httpc  *http.Client
	log    zerolog.Logger
}

// NewMigrator builds the minio client. A nil Migrator is valid and degrades
// to pass-through, so callers without storage credentials still sync.
func NewMigrator(opts Options, log zerolog.Logger) (*Migrator, error) {
	if opts.Workers < 1 {
		opts.Workers = 4
	}
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Secure: opts.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &Migrator{
		client: client,
		opts:   opts,
		httpc:  &http.Client{Timeout: 30 * time.Second},
		log:    log,
	}, nil
}

// CheckBucket verifies the target bucket exists, creating it when missing.
func (m *Migrator) CheckBucket(ctx context.Context) error {
	exists, err := m.client.BucketExists(ctx, m.opts.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", m.opts.Bucket, err)
	}
	if !exists {
		m.log.Info().Str("bucket", m.opts.Bucket).Msg("bucket missing, creating")
		if err := m.client.MakeBucket(ctx, m.opts.Bucket, minio.MakeBucketOptions{}); err != nil {
			return fmt.Errorf("create bucket %s: %w", m.opts.Bucket, err)
		}
	}
	return nil
}

// Migrate fetches each source URL and re-uploads it under the vehicle's key
// prefix, preserving order — the first photo stays primary. Individual
// failures fall back to that photo's source URL; a nil receiver or empty
// input returns the input unchanged. Migrate never returns an error to the
// caller.
func (m *Migrator) Migrate(ctx context.Context, vehicleKey string, srcURLs []string) []string {
	if m == nil || len(srcURLs) == 0 {
		return srcURLs
	}

	out := make([]string, len(srcURLs))
	copy(out, srcURLs) // every slot starts as its fallback

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(m.opts.Workers)
	for i, src := range srcURLs {
		g.Go(func() error {
			hosted, err := m.migrateOne(gctx, vehicleKey, i, src)
			if err != nil {
				m.log.Warn().Err(err).Str("vehicle", vehicleKey).Str("src", src).Msg("photo migration failed, keeping source URL")
				return nil // fallback already in place; never poison the group
			}
			out[i] = hosted
			return nil
		})
	}
	_ = g.Wait() // workers only return nil

	return out
}

func (m *Migrator) migrateOne(ctx context.Context, vehicleKey string, index int, src string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}

	resp, err := m.httpc.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch: status %d", resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	key := fmt.Sprintf("vehicles/%s/%d.jpg", vehicleKey, index)
	_, err = m.client.PutObject(ctx, m.opts.Bucket, key, resp.Body, resp.ContentLength,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	return fmt.Sprintf("%s/%s/%s", m.opts.PublicBaseURL, m.opts.Bucket, key), nil
}
