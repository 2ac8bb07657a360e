package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uyruai-lang/My-bot/internal/storage"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStorage(t *testing.T) *storage.Storage {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// A single connection keeps every query on the same in-memory database.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	store := storage.New(db)
	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestLinkRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertLink(ctx, 42, "alice"))

	link, err := store.GetLink(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "alice", link.ChessUsername)
	assert.EqualValues(t, 42, link.TelegramID)
}

func TestUpsertLinkOverwrites(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertLink(ctx, 42, "alice"))
	require.NoError(t, store.UpsertLink(ctx, 42, "bob"))

	link, err := store.GetLink(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, "bob", link.ChessUsername)

	usernames, err := store.ListUsernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob"}, usernames)
}

func TestDeleteLink(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	existed, err := store.DeleteLink(ctx, 42)
	require.NoError(t, err)
	assert.False(t, existed)

	require.NoError(t, store.UpsertLink(ctx, 42, "alice"))

	existed, err = store.DeleteLink(ctx, 42)
	require.NoError(t, err)
	assert.True(t, existed)

	_, err = store.GetLink(ctx, 42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListUsernamesOrder(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertLink(ctx, 1, "alice"))
	require.NoError(t, store.UpsertLink(ctx, 2, "bob"))
	require.NoError(t, store.UpsertLink(ctx, 3, "carol"))

	usernames, err := store.ListUsernames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob", "carol"}, usernames)
}

func TestBanAndUnlink(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.UpsertLink(ctx, 42, "alice"))
	require.NoError(t, store.BanAndUnlink(ctx, 42))

	banned, err := store.IsBanned(ctx, 42)
	require.NoError(t, err)
	assert.True(t, banned)

	_, err = store.GetLink(ctx, 42)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Banning again is a no-op.
	require.NoError(t, store.BanAndUnlink(ctx, 42))
}

func TestBanWithoutLink(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.BanAndUnlink(ctx, 99))

	banned, err := store.IsBanned(ctx, 99)
	require.NoError(t, err)
	assert.True(t, banned)
}

func TestRemoveBan(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	existed, err := store.RemoveBan(ctx, 42)
	require.NoError(t, err)
	assert.False(t, existed)

	require.NoError(t, store.AddBan(ctx, 42))
	require.NoError(t, store.AddBan(ctx, 42))

	existed, err = store.RemoveBan(ctx, 42)
	require.NoError(t, err)
	assert.True(t, existed)

	banned, err := store.IsBanned(ctx, 42)
	require.NoError(t, err)
	assert.False(t, banned)
}
