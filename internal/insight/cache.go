package insight

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SQLiteCache stores narratives in the insight_cache table.
type SQLiteCache struct {
	db  *sql.DB
	ttl time.Duration
	now func() time.Time
}

var _ Cache = (*SQLiteCache)(nil)

// NewSQLiteCache returns a cache whose entries expire after ttl.
func NewSQLiteCache(db *sql.DB, ttl time.Duration) *SQLiteCache {
	return &SQLiteCache{db: db, ttl: ttl, now: time.Now}
}

// Get returns a non-expired narrative for fingerprint.
func (c *SQLiteCache) Get(ctx context.Context, fingerprint string) (string, bool, error) {
	cutoff := c.now().Add(-c.ttl).Unix()

	var body string
	err := c.db.QueryRowContext(ctx, `
		SELECT body
		FROM insight_cache
		WHERE fingerprint = ? AND created_at >= ?
	`, fingerprint, cutoff).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query insight cache: %w", err)
	}
	return body, true, nil
}

// Put stores or refreshes the narrative for fingerprint.
func (c *SQLiteCache) Put(ctx context.Context, fingerprint, model, body string) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO insight_cache (id, fingerprint, model, body, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			model = excluded.model,
			body = excluded.body,
			created_at = excluded.created_at
	`, uuid.NewString(), fingerprint, model, body, c.now().Unix())
	if err != nil {
		return fmt.Errorf("upsert insight cache: %w", err)
	}
	return nil
}

// Prune deletes expired entries and returns how many were removed.
func (c *SQLiteCache) Prune(ctx context.Context) (int64, error) {
	result, err := c.db.ExecContext(ctx, `
		DELETE FROM insight_cache WHERE created_at < ?
	`, c.now().Add(-c.ttl).Unix())
	if err != nil {
		return 0, fmt.Errorf("prune insight cache: %w", err)
	}

	removed, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune insight cache: %w", err)
	}
	return removed, nil
}
