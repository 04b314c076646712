package watch

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/onchain-commerce/hubindexer/internal/db"
	"github.com/onchain-commerce/hubindexer/internal/logger"
	"github.com/onchain-commerce/hubindexer/internal/store/migrations"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	database, err := db.NewSQLiteDB(filepath.Join(t.TempDir(), "watch.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, migrations.RunMigrations(logger.NewNopLogger(), database))
	return database
}

func register(t *testing.T, database *sql.DB, r *Registry, addr common.Address) bool {
	t.Helper()

	tx, err := database.Begin()
	require.NoError(t, err)

	added, err := r.RegisterWatch(tx, addr, 100)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	return added
}

func TestRegistry_RegisterAndCommit(t *testing.T) {
	database := newTestDB(t)
	r := NewRegistry(logger.NewNopLogger())

	addr := common.HexToAddress("0x1111111111111111111111111111111111111111")
	require.False(t, r.IsWatched(addr))

	require.True(t, register(t, database, r, addr))

	// Staged registration is visible before Commit so events later in
	// the same batch pass the watch check.
	require.True(t, r.IsWatched(addr))
	require.Equal(t, 0, r.Count())

	added := r.Commit()
	require.Len(t, added, 1)
	require.Equal(t, addr, added[0])
	require.Equal(t, 1, r.Count())
	require.True(t, r.IsWatched(addr))
}

func TestRegistry_RegisterIsIdempotent(t *testing.T) {
	database := newTestDB(t)
	r := NewRegistry(logger.NewNopLogger())

	addr := common.HexToAddress("0x2222222222222222222222222222222222222222")
	require.True(t, register(t, database, r, addr))
	require.False(t, register(t, database, r, addr))
	r.Commit()
	require.False(t, register(t, database, r, addr))
	require.Equal(t, 1, r.Count())
}

func TestRegistry_Rollback(t *testing.T) {
	database := newTestDB(t)
	r := NewRegistry(logger.NewNopLogger())

	addr := common.HexToAddress("0x3333333333333333333333333333333333333333")

	tx, err := database.Begin()
	require.NoError(t, err)
	added, err := r.RegisterWatch(tx, addr, 100)
	require.NoError(t, err)
	require.True(t, added)
	require.NoError(t, tx.Rollback())

	r.Rollback()
	require.False(t, r.IsWatched(addr))

	// The same address can be registered again after the failed batch.
	require.True(t, register(t, database, r, addr))
	r.Commit()
	require.True(t, r.IsWatched(addr))
}

func TestRegistry_LoadFromDatabase(t *testing.T) {
	database := newTestDB(t)

	first := NewRegistry(logger.NewNopLogger())
	a := common.HexToAddress("0x4444444444444444444444444444444444444444")
	b := common.HexToAddress("0x5555555555555555555555555555555555555555")
	register(t, database, first, a)
	register(t, database, first, b)
	first.Commit()

	second := NewRegistry(logger.NewNopLogger())
	require.NoError(t, second.Load(database))
	require.Equal(t, 2, second.Count())
	require.True(t, second.IsWatched(a))
	require.True(t, second.IsWatched(b))
	require.ElementsMatch(t, []common.Address{a, b}, second.Snapshot())
}
