package imagecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var _ Store = (*PostgresStore)(nil)

// DB is the subset of pgxpool.Pool the store uses.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresStore keeps the blob in one row of image_cache_blobs.
type PostgresStore struct {
	logger     *slog.Logger
	db         DB
	storageKey string
}

func NewPostgresStore(db DB, storageKey string, logger *slog.Logger) *PostgresStore {
	return &PostgresStore{
		logger:     logger,
		db:         db,
		storageKey: storageKey,
	}
}

func (r *PostgresStore) Load(ctx context.Context) ([]byte, error) {
	query := `
        SELECT payload
        FROM image_cache_blobs
        WHERE storage_key = $1
    `
	var payload []byte
	if err := r.db.QueryRow(ctx, query, r.storageKey).Scan(&payload); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load image cache blob: %w", err)
	}
	r.logger.DebugContext(ctx, "Loaded image cache blob",
		slog.String("storage_key", r.storageKey),
		slog.Int("bytes", len(payload)))
	return payload, nil
}

func (r *PostgresStore) Save(ctx context.Context, data []byte) error {
	query := `
        INSERT INTO image_cache_blobs (storage_key, payload, updated_at)
        VALUES ($1, $2, NOW())
        ON CONFLICT (storage_key)
        DO UPDATE SET payload = EXCLUDED.payload, updated_at = NOW()
    `
	if _, err := r.db.Exec(ctx, query, r.storageKey, data); err != nil {
		return fmt.Errorf("failed to save image cache blob: %w", err)
	}
	return nil
}
