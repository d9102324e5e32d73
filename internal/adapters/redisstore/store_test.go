package redisstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mediwound/wardview/internal/ports"
	"github.com/mediwound/wardview/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	client := testutil.SetupTestRedis(t)
	store := New(client, "wardview-test:")

	t.Cleanup(func() {
		keys := append([]ports.Key{}, ports.AuthKeys...)
		keys = append(keys, ports.SessionScopedKeys...)
		keys = append(keys, ports.KeyRememberedEmail)
		_ = store.Delete(context.Background(), keys...)
	})

	return store
}

func TestSetGetDelete(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, ok, err := store.Get(ctx, ports.KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, ports.KeyAccessToken, "tok-1"))

	v, ok, err := store.Get(ctx, ports.KeyAccessToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "tok-1", v)

	require.NoError(t, store.Delete(ctx, ports.KeyAccessToken))

	_, ok, err = store.Get(ctx, ports.KeyAccessToken)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestKeysAreNamespaced(t *testing.T) {
	ctx := context.Background()
	client := testutil.SetupTestRedis(t)

	a := New(client, "station-a:")
	b := New(client, "station-b:")
	t.Cleanup(func() {
		_ = a.Delete(ctx, ports.KeyActiveView)
		_ = b.Delete(ctx, ports.KeyActiveView)
	})

	require.NoError(t, a.Set(ctx, ports.KeyActiveView, "patients"))

	_, ok, err := b.Get(ctx, ports.KeyActiveView)
	require.NoError(t, err)
	assert.False(t, ok, "stores with different prefixes must not share keys")
}

func TestDeleteNothing(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Delete(context.Background()))
}
