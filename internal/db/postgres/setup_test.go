package postgres

import (
	"context"
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// setupTestDB connects to the PostGIS test database and applies migrations.
// Tests are skipped when TEST_DATABASE_URL is not set.
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set; skipping PostGIS repository tests")
	}

	ctx := context.Background()
	db, err := Connect(ctx, dsn, Options{MaxOpenConns: 10})
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, Migrate(ctx, db), "Failed to run migrations")

	t.Cleanup(func() { _ = db.Close() })
	return db
}

// testUserID returns an identity-provider style ID unique to this test run
func testUserID(t *testing.T) string {
	t.Helper()
	return "user_test_" + uuid.NewString()
}

// cleanupUserData removes every row created for a test user
func cleanupUserData(t *testing.T, db *sql.DB, clerkID string) {
	t.Helper()
	t.Cleanup(func() {
		_, err := db.Exec("DELETE FROM posts WHERE user_id = $1", clerkID)
		require.NoError(t, err)
		_, err = db.Exec("DELETE FROM users WHERE clerk_id = $1", clerkID)
		require.NoError(t, err)
	})
}
