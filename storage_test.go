package authcore_test

import (
	"context"
	"sync"
	"testing"

	authcore "github.com/auravision/go-authcore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorage(t *testing.T) {
	storage := authcore.NewMemoryStorage()
	ctx := context.Background()

	_, err := storage.Get(ctx, "missing")
	assert.True(t, authcore.IsKeyNotFound(err))

	require.NoError(t, storage.Set(ctx, "slot", "value"))
	value, err := storage.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "value", value)

	require.NoError(t, storage.Set(ctx, "slot", "replaced"))
	value, err = storage.Get(ctx, "slot")
	require.NoError(t, err)
	assert.Equal(t, "replaced", value)

	require.NoError(t, storage.Delete(ctx, "slot"))
	_, err = storage.Get(ctx, "slot")
	assert.True(t, authcore.IsKeyNotFound(err))

	require.NoError(t, storage.Delete(ctx, "slot"))
}

func TestMemoryStorageConcurrentAccess(t *testing.T) {
	storage := authcore.NewMemoryStorage()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = storage.Set(ctx, "shared", "v")
			_, _ = storage.Get(ctx, "shared")
		}()
	}
	wg.Wait()

	value, err := storage.Get(ctx, "shared")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}
