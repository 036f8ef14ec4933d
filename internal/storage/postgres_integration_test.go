//go:build integration

package storage

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

func getTestPostgres(t *testing.T) *PostgresBackend {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set, skipping integration test")
	}

	ctx := context.Background()
	b, err := NewPostgresBackend(ctx, dsn, 32)
	require.NoError(t, err)
	require.NoError(t, b.EnsureSchema(ctx))

	_, _ = b.pool.Exec(ctx, "DELETE FROM jobfit_records WHERE key IN ('k', 'big', 'missing')")
	t.Cleanup(func() { _ = b.Close() })
	return b
}

func TestIntegration_PostgresBackend(t *testing.T) {
	exerciseBackend(t, getTestPostgres(t))
}
