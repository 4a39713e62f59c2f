package migrations

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/salario/internal/db"
)

func TestUpIsIdempotent(t *testing.T) {
	ctx := context.Background()
	database, err := db.Open(ctx, filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer database.Close()

	for i := 0; i < 3; i++ {
		require.NoError(t, Up(ctx, database), "iteration %d", i)
	}

	var count int
	require.NoError(t, database.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'insight_cache'`,
	).Scan(&count))
	assert.Equal(t, 1, count)
}
