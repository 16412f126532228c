package database

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMigrationsTempDir(t *testing.T) {
	t.Parallel()

	dir, err := MigrationsTempDir()
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	// Every embedded migration is extracted with the content it has on disk.
	entries, err := os.ReadDir("migrations")
	require.Nil(t, err)
	require.NotEmpty(t, entries)

	for _, entry := range entries {
		expected, err := os.ReadFile(filepath.Join("migrations", entry.Name()))
		require.Nil(t, err)

		extracted, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		require.Nil(t, err)
		require.Equal(t, string(expected), string(extracted), entry.Name())
	}
}

func TestMigrations_PendingTransfersTable(t *testing.T) {
	t.Parallel()

	up, err := migrationsFS.ReadFile("migrations/1_pending_transfers.up.sql")
	require.Nil(t, err)
	require.Contains(t, string(up), "CREATE TABLE IF NOT EXISTS pending_transfers")
	require.Contains(t, string(up), "PRIMARY KEY (chain_id, tx_hash)")

	down, err := migrationsFS.ReadFile("migrations/1_pending_transfers.down.sql")
	require.Nil(t, err)
	require.Contains(t, string(down), "DROP TABLE IF EXISTS pending_transfers")

	// Every up migration has its down migration.
	files, err := upMigrations()
	require.Nil(t, err)
	for _, file := range files {
		_, err := migrationsFS.ReadFile("migrations/" + strings.TrimSuffix(file, ".up.sql") + ".down.sql")
		require.Nil(t, err, file)
	}
}

func TestMigrationVersionOrder(t *testing.T) {
	t.Parallel()

	names := []string{"10_c.up.sql", "2_b.up.sql", "1_a.up.sql"}
	require.Less(t, migrationVersion(names[2]), migrationVersion(names[1]))
	require.Less(t, migrationVersion(names[1]), migrationVersion(names[0]))
	require.Equal(t, 0, migrationVersion("no_version.up.sql"))
}

func TestUpMigrations(t *testing.T) {
	files, err := upMigrations()
	require.Nil(t, err)
	require.Equal(t, []string{"1_pending_transfers.up.sql"}, files)
	require.Equal(t, 12, migrationVersion("12_foo.up.sql"))
}
