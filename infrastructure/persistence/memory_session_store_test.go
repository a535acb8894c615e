package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meta-ads-setup/domain/model"
	"meta-ads-setup/domain/repository"
)

func TestMemorySessionStore_SaveAndGet(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	session := model.NewSession("s1")
	session.AppID = "123"
	require.NoError(t, store.Save(ctx, session))

	got, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "123", got.AppID)

	// The store hands out copies; mutating a read result must not leak back.
	got.AppID = "mutated"
	again, err := store.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "123", again.AppID)
}

func TestMemorySessionStore_GetMissing(t *testing.T) {
	store := NewMemorySessionStore()
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)
}

func TestMemorySessionStore_Delete(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, model.NewSession("s1")))
	require.NoError(t, store.Delete(ctx, "s1"))

	_, err := store.Get(ctx, "s1")
	assert.ErrorIs(t, err, repository.ErrSessionNotFound)

	// Deleting an unknown id is not an error.
	assert.NoError(t, store.Delete(ctx, "missing"))
}
