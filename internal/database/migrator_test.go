package database

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationNames_SortedAndEmbedded(t *testing.T) {
	m := NewMigrator(nil, zerolog.Nop())

	names, err := m.migrationNames()
	require.NoError(t, err)
	require.Len(t, names, 2)
	assert.Equal(t, "001_create_users.sql", names[0])
	assert.Equal(t, "002_create_live_sessions.sql", names[1])
}

func TestMigrationNames_SkipsDirectories(t *testing.T) {
	m := NewMigrator(nil, zerolog.Nop())
	m.files = fstest.MapFS{
		"migrations/010_b.sql":    {Data: []byte("SELECT 1")},
		"migrations/002_a.sql":    {Data: []byte("SELECT 1")},
		"migrations/nested/x.sql": {Data: []byte("SELECT 1")},
	}

	names, err := m.migrationNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"002_a.sql", "010_b.sql"}, names)
}

func TestMigrations_DeclareUniqueUserColumns(t *testing.T) {
	b, err := migrationsFS.ReadFile("migrations/001_create_users.sql")
	require.NoError(t, err)
	sql := string(b)
	assert.True(t, strings.Contains(sql, "UNIQUE (email)"))
	assert.True(t, strings.Contains(sql, "UNIQUE (username)"))
}
