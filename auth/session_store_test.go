package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionStores(t *testing.T) map[string]SessionStore {
	t.Helper()
	badgerStore, err := OpenBadgerSessionStore("")
	require.NoError(t, err)
	t.Cleanup(func() { badgerStore.Close() })

	return map[string]SessionStore{
		"memory": NewMemorySessionStore(),
		"badger": badgerStore,
	}
}

func TestSessionStores(t *testing.T) {
	for name, store := range sessionStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			now := time.Now()

			session := &Session{
				Token:       "token-a",
				ModeratorID: 3,
				Username:    "alice",
				CreatedAt:   now,
				ExpiresAt:   now.Add(time.Hour),
			}
			require.NoError(t, store.Create(ctx, session))
			require.NoError(t, store.Create(ctx, &Session{Token: "token-b", ModeratorID: 3, ExpiresAt: now.Add(time.Hour)}))
			require.NoError(t, store.Create(ctx, &Session{Token: "token-c", ModeratorID: 4, ExpiresAt: now.Add(time.Hour)}))

			got, err := store.Get(ctx, "token-a")
			require.NoError(t, err)
			assert.Equal(t, uint(3), got.ModeratorID)
			assert.Equal(t, "alice", got.Username)

			_, err = store.Get(ctx, "missing")
			assert.ErrorIs(t, err, ErrSessionNotFound)

			require.NoError(t, store.Delete(ctx, "token-a"))
			_, err = store.Get(ctx, "token-a")
			assert.ErrorIs(t, err, ErrSessionNotFound)
			assert.ErrorIs(t, store.Delete(ctx, "token-a"), ErrSessionNotFound)

			count, err := store.DeleteByModerator(ctx, 3)
			require.NoError(t, err)
			assert.Equal(t, 1, count)
			_, err = store.Get(ctx, "token-b")
			assert.ErrorIs(t, err, ErrSessionNotFound)

			_, err = store.Get(ctx, "token-c")
			assert.NoError(t, err)
		})
	}
}

func TestBadgerSessionStore_Expired(t *testing.T) {
	store, err := OpenBadgerSessionStore("")
	require.NoError(t, err)
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.Create(ctx, &Session{Token: "t", ModeratorID: 1, ExpiresAt: time.Now().Add(time.Hour)}))

	store.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = store.Get(ctx, "t")
	assert.ErrorIs(t, err, ErrSessionExpired)

	err = store.Create(ctx, &Session{Token: "old", ModeratorID: 1, ExpiresAt: time.Now().Add(time.Minute)})
	assert.ErrorIs(t, err, ErrSessionExpired)
}
