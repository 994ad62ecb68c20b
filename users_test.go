package authcore_test

import (
	"context"
	"testing"

	authcore "github.com/auravision/go-authcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUser(id, email, nickname string) *authcore.User {
	return &authcore.User{
		ID:       id,
		Email:    email,
		Nickname: nickname,
	}
}

func TestUsersAddAndFind(t *testing.T) {
	repo := authcore.NewUsersRepository(authcore.NewMemoryStorage())
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, newTestUser("AV_1_a", "a@x.com", "ana")))
	require.NoError(t, repo.Add(ctx, newTestUser("AV_2_b", "b@x.com", "bob")))

	byEmail, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "AV_1_a", byEmail.ID)
	assert.Equal(t, authcore.RoleAnalista, byEmail.Role)

	byNick, err := repo.FindByNickname(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "AV_2_b", byNick.ID)

	_, err = repo.FindByEmail(ctx, "missing@x.com")
	assert.True(t, authcore.IsUserNotFound(err))
}

func TestUsersFindByIdentifierFallsBackToNickname(t *testing.T) {
	repo := authcore.NewUsersRepository(authcore.NewMemoryStorage())
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, newTestUser("AV_1_a", "a@x.com", "ana")))

	byEmail, err := repo.FindByIdentifier(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, "AV_1_a", byEmail.ID)

	byNick, err := repo.FindByIdentifier(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "AV_1_a", byNick.ID)

	_, err = repo.FindByIdentifier(ctx, "nobody")
	assert.True(t, authcore.IsUserNotFound(err))
}

func TestUsersDuplicateEmailsBothPersist(t *testing.T) {
	repo := authcore.NewUsersRepository(authcore.NewMemoryStorage())
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, newTestUser("AV_1_a", "dup@x.com", "first")))
	require.NoError(t, repo.Add(ctx, newTestUser("AV_2_b", "dup@x.com", "second")))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	// first match wins
	found, err := repo.FindByEmail(ctx, "dup@x.com")
	require.NoError(t, err)
	assert.Equal(t, "AV_1_a", found.ID)
}

func TestUsersUpdateMergesFields(t *testing.T) {
	repo := authcore.NewUsersRepository(authcore.NewMemoryStorage())
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, newTestUser("AV_1_a", "a@x.com", "ana")))

	phone := "+34600111222"
	photo := "data:image/png;base64,xxxx"
	require.NoError(t, repo.Update(ctx, "AV_1_a", authcore.UserUpdate{
		Phone:          &phone,
		ProcessedPhoto: &photo,
	}))

	found, err := repo.FindByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, phone, found.Phone)
	assert.Equal(t, photo, found.ProcessedPhoto)
	assert.Equal(t, "ana", found.Nickname)
}

func TestUsersUpdateAbsentIDIsNoop(t *testing.T) {
	storage := authcore.NewMemoryStorage()
	repo := authcore.NewUsersRepository(storage)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, newTestUser("AV_1_a", "a@x.com", "ana")))
	before, err := storage.Get(ctx, authcore.DefaultUsersSlot)
	require.NoError(t, err)

	nickname := "ghost"
	require.NoError(t, repo.Update(ctx, "AV_404_x", authcore.UserUpdate{Nickname: &nickname}))

	after, err := storage.Get(ctx, authcore.DefaultUsersSlot)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestUsersSlotKeepsNotificationsFlag(t *testing.T) {
	storage := authcore.NewMemoryStorage()
	repo := authcore.NewUsersRepository(storage)
	ctx := context.Background()

	user := newTestUser("AV_1_a", "a@x.com", "ana")
	user.Notifications = false
	require.NoError(t, repo.Add(ctx, user))

	raw, err := storage.Get(ctx, authcore.DefaultUsersSlot)
	require.NoError(t, err)
	assert.Contains(t, raw, `"notifications":false`)
}

func TestUsersCorruptedSlotIsEmptyCollection(t *testing.T) {
	storage := authcore.NewMemoryStorage()
	ctx := context.Background()
	require.NoError(t, storage.Set(ctx, authcore.DefaultUsersSlot, "{{{not json"))

	repo := authcore.NewUsersRepository(storage)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// a mutation recovers the slot
	require.NoError(t, repo.Add(ctx, newTestUser("AV_1_a", "a@x.com", "ana")))
	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestUsersObservesExternalWrites(t *testing.T) {
	storage := authcore.NewMemoryStorage()
	ctx := context.Background()

	repo := authcore.NewUsersRepository(storage)
	require.NoError(t, repo.Add(ctx, newTestUser("AV_1_a", "a@x.com", "ana")))

	// a second repository over the same storage sees the record, and its
	// writes are seen back: reads are always a fresh deserialization
	other := authcore.NewUsersRepository(storage)
	require.NoError(t, other.Add(ctx, newTestUser("AV_2_b", "b@x.com", "bob")))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestUsersCustomSlot(t *testing.T) {
	storage := authcore.NewMemoryStorage()
	ctx := context.Background()

	repo := authcore.NewUsersRepository(storage, authcore.WithUsersSlot("tenant42.users"))
	require.NoError(t, repo.Add(ctx, newTestUser("AV_1_a", "a@x.com", "ana")))

	_, err := storage.Get(ctx, "tenant42.users")
	assert.NoError(t, err)
	_, err = storage.Get(ctx, authcore.DefaultUsersSlot)
	assert.True(t, authcore.IsKeyNotFound(err))
}
