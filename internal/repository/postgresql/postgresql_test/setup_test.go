package postgresql_test

import (
	"context"
	"os"
	"testing"

	"github.com/cmlabs-hris/payroll-onboarding/internal/pkg/database"
	"github.com/cmlabs-hris/payroll-onboarding/internal/repository/postgresql"
	"github.com/stretchr/testify/require"
)

// newTestDatabase connects to TEST_DATABASE_URL, migrates, and truncates the
// drafts table. The test is skipped when the variable is unset.
func newTestDatabase(t *testing.T) *database.DB {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.NewPostgreSQLDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, postgresql.Migrate(ctx, db))
	_, err = db.Exec(ctx, "TRUNCATE TABLE onboarding_drafts")
	require.NoError(t, err)
	return db
}
