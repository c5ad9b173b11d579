package database

import (
	"io/fs"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readMigrations(t *testing.T, suffix string) []string {
	t.Helper()
	names, err := fs.Glob(migrationsFS, "migrations/*"+suffix)
	require.NoError(t, err)
	sort.Strings(names)

	scripts := make([]string, 0, len(names))
	for _, name := range names {
		data, err := migrationsFS.ReadFile(name)
		require.NoError(t, err)
		scripts = append(scripts, string(data))
	}
	return scripts
}

func TestMigrationsArePaired(t *testing.T) {
	up := readMigrations(t, ".up.sql")
	down := readMigrations(t, ".down.sql")
	require.NotEmpty(t, up)
	assert.Len(t, down, len(up))
}

func TestChangeRequestsOutliveClearedClasses(t *testing.T) {
	up := readMigrations(t, ".up.sql")
	latest := up[len(up)-1]

	assert.Contains(t, latest, "FOREIGN KEY (scheduled_class_id) REFERENCES scheduled_classes(id) ON DELETE SET NULL")
	assert.Contains(t, latest, "ALTER COLUMN scheduled_class_id DROP NOT NULL")
	for _, column := range []string{"course_id", "batch_id", "room_id", "time_slot_id"} {
		assert.Contains(t, latest, "ADD COLUMN IF NOT EXISTS "+column)
	}

	down := readMigrations(t, ".down.sql")
	assert.True(t, strings.Contains(down[len(down)-1], "ON DELETE CASCADE"))
}

func TestMigratorCloseWithoutInstance(t *testing.T) {
	var m *Migrator
	assert.NoError(t, m.Close())
	assert.NoError(t, (&Migrator{}).Close())
}
