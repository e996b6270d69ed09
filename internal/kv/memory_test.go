package kv_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whenpress/whenpress/internal/kv"
)

func TestMemoryStore_GetMissing(t *testing.T) {
	store := kv.NewMemoryStore()

	_, err := store.Get(context.Background(), "devices")
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestMemoryStore_PutOverwrites(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "ping:sage", "1000"))
	require.NoError(t, store.Put(ctx, "ping:sage", "2000"))

	value, err := store.Get(ctx, "ping:sage")
	require.NoError(t, err)
	assert.Equal(t, "2000", value)
}

func TestMemoryStore_ListByPrefix(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "auth:sage", "hash1"))
	require.NoError(t, store.Put(ctx, "auth:basil", "hash2"))
	require.NoError(t, store.Put(ctx, "ping:sage", "1000"))

	keys, err := store.List(ctx, "auth:")
	require.NoError(t, err)
	assert.Equal(t, []string{"auth:basil", "auth:sage"}, keys)

	all, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
