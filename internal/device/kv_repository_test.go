package device_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whenpress/whenpress/internal/device"
	"github.com/whenpress/whenpress/internal/kv"
)

func TestKVRepository_LedgerAbsentIsEmpty(t *testing.T) {
	repo := device.NewKVRepository(kv.NewMemoryStore())

	ledger, err := repo.Ledger(context.Background(), "sage")
	require.NoError(t, err)
	assert.Empty(t, ledger.Events)
}

func TestKVRepository_LedgerRoundTrip(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := device.NewKVRepository(store)
	ctx := context.Background()

	err := repo.PutLedger(ctx, "sage", &device.Ledger{
		Events: []device.PressEvent{{PressTimestamp: 12345}, {PressTimestamp: 12347}},
	})
	require.NoError(t, err)

	// Stored document uses the wire schema.
	raw, err := store.Get(ctx, "data:sage")
	require.NoError(t, err)
	assert.JSONEq(t, `{"events":[{"pressTimestamp":12345},{"pressTimestamp":12347}]}`, raw)

	ledger, err := repo.Ledger(ctx, "sage")
	require.NoError(t, err)
	require.Len(t, ledger.Events, 2)
	assert.Equal(t, int64(12345), ledger.Events[0].PressTimestamp)
}

func TestKVRepository_CorruptLedgerIsUnavailable(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := device.NewKVRepository(store)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "data:sage", "{broken"))

	_, err := repo.Ledger(ctx, "sage")
	assert.ErrorIs(t, err, device.ErrUnavailable)
}

func TestKVRepository_PingStoredAsString(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := device.NewKVRepository(store)
	ctx := context.Background()

	_, ok, err := repo.Ping(ctx, "sage")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.PutPing(ctx, "sage", 1700000000))

	raw, err := store.Get(ctx, "ping:sage")
	require.NoError(t, err)
	assert.Equal(t, "1700000000", raw)

	ts, ok, err := repo.Ping(ctx, "sage")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, int64(1700000000), ts)
}

func TestKVRepository_AddDevice(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := device.NewKVRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.AddDevice(ctx, "sage"))
	require.NoError(t, repo.AddDevice(ctx, "basil"))
	require.NoError(t, repo.AddDevice(ctx, "sage")) // no duplicate entry

	names, err := repo.Registry(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"sage", "basil"}, names)
}

func TestKVRepository_CredentialRoundTrip(t *testing.T) {
	repo := device.NewKVRepository(kv.NewMemoryStore())
	ctx := context.Background()

	_, err := repo.CredentialHash(ctx, "sage")
	assert.ErrorIs(t, err, kv.ErrNotFound)

	require.NoError(t, repo.PutCredentialHash(ctx, "sage", "$2a$10$examplehash"))

	hash, err := repo.CredentialHash(ctx, "sage")
	require.NoError(t, err)
	assert.Equal(t, "$2a$10$examplehash", hash)
}

func TestKVRepository_ProvisionedAndPinged(t *testing.T) {
	store := kv.NewMemoryStore()
	repo := device.NewKVRepository(store)
	ctx := context.Background()

	require.NoError(t, repo.PutCredentialHash(ctx, "sage", "$2a$10$examplehash"))
	require.NoError(t, repo.PutPing(ctx, "basil", 1700000000))

	// An unrelated key sharing no prefix must not leak into either set.
	require.NoError(t, store.Put(ctx, device.RegistryKey, `["sage","basil"]`))

	provisioned, err := repo.Provisioned(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"sage": true}, provisioned)

	pinged, err := repo.Pinged(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]bool{"basil": true}, pinged)
}
