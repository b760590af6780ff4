package database_test

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billed/internal/database"
)

func TestNewMigrator(t *testing.T) {
	// sql.Open does not connect, and loading migrations never touches the pool.
	db, err := sql.Open("pgx", "postgres://billed@localhost:1/billed?sslmode=disable")
	require.NoError(t, err)
	defer db.Close()

	provider, err := database.NewMigrator(db)
	require.NoError(t, err)

	sources := provider.ListSources()
	require.Len(t, sources, 1)
	assert.Equal(t, int64(1), sources[0].Version)
	assert.Equal(t, "001_bills.sql", sources[0].Path)
}
