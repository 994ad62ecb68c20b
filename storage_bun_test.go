package authcore_test

import (
	"context"
	"database/sql"
	"testing"

	authcore "github.com/auravision/go-authcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupBunStorage(t *testing.T) *authcore.BunStorage {
	t.Helper()

	db, err := sql.Open(sqliteshim.ShimName, ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	bunDB := bun.NewDB(db, sqlitedialect.New())

	storage := authcore.NewBunStorage(bunDB)
	require.NoError(t, storage.Init(context.Background()))

	return storage
}

func TestBunStorageRoundTrip(t *testing.T) {
	storage := setupBunStorage(t)
	ctx := context.Background()

	_, err := storage.Get(ctx, "missing")
	assert.True(t, authcore.IsKeyNotFound(err))

	require.NoError(t, storage.Set(ctx, "slot", `[{"id":"AV_1_a"}]`))
	value, err := storage.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"AV_1_a"}]`, value)

	require.NoError(t, storage.Set(ctx, "slot", "replaced"))
	value, err = storage.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "replaced", value)

	require.NoError(t, storage.Delete(ctx, "slot"))
	_, err = storage.Get(ctx, "slot")
	assert.True(t, authcore.IsKeyNotFound(err))

	require.NoError(t, storage.Delete(ctx, "slot"))
}

func TestBunStorageBacksUserRepository(t *testing.T) {
	storage := setupBunStorage(t)
	ctx := context.Background()

	repo := authcore.NewUsersRepository(storage)
	require.NoError(t, repo.Add(ctx, newTestUser("AV_1_a", "a@x.com", "ana")))
	require.NoError(t, repo.Add(ctx, newTestUser("AV_2_b", "b@x.com", "bob")))

	found, err := repo.FindByIdentifier(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "AV_2_b", found.ID)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
