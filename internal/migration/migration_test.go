package migration

import (
	"io/fs"
	"testing"

	"github.com/smallbiznis/gareline/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateAutoMigratesNonPostgres(t *testing.T) {
	conn, err := db.NewTest()
	require.NoError(t, err)

	require.NoError(t, Migrate(conn, "sqlite"))

	for _, table := range []string{"users", "zones", "agencies", "gares", "connections", "recharges", "alerts", "audit_logs"} {
		assert.True(t, conn.Migrator().HasTable(table), table)
	}
	// Rerunning is a no-op.
	require.NoError(t, Migrate(conn, "sqlite"))
}

func TestMigrateRequiresHandle(t *testing.T) {
	assert.Error(t, Migrate(nil, "sqlite"))
	assert.Error(t, RunMigrations(nil))
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	ups, err := fs.Glob(embeddedMigrations, migrationsDir+"/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(embeddedMigrations, migrationsDir+"/*.down.sql")
	require.NoError(t, err)

	assert.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))
}
