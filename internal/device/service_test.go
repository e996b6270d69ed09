package device_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whenpress/whenpress/internal/auth"
	"github.com/whenpress/whenpress/internal/device"
	"github.com/whenpress/whenpress/internal/kv"
)

func ptr(v int64) *int64 { return &v }

// newTestService seeds a memory store with a registered device "sage" whose
// password is "correct".
func newTestService(t *testing.T) (*device.Service, kv.Store) {
	t.Helper()

	store := kv.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, device.RegistryKey, `["sage","basil"]`))

	hash, err := auth.HashPassword("correct")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, device.CredentialKey("sage"), hash))

	return device.NewService(device.NewKVRepository(store)), store
}

func TestService_UnknownDeviceIsNotFound(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	err := service.RecordPress(ctx, "rosemary", "correct", ptr(1000))
	assert.ErrorIs(t, err, device.ErrNotFound)

	// The registry check wins even when the body would also be rejected.
	err = service.RecordPress(ctx, "rosemary", "correct", nil)
	assert.ErrorIs(t, err, device.ErrNotFound)
	assert.NotErrorIs(t, err, device.ErrMalformed)

	_, err = service.RecordPing(ctx, "rosemary", "correct")
	assert.ErrorIs(t, err, device.ErrNotFound)

	_, err = service.Snapshot(ctx, "rosemary")
	assert.ErrorIs(t, err, device.ErrNotFound)
}

func TestService_RegistryCaseSensitive(t *testing.T) {
	service, _ := newTestService(t)

	_, err := service.Snapshot(context.Background(), "Sage")
	assert.ErrorIs(t, err, device.ErrNotFound)
}

func TestService_MissingRegistryIsUnavailable(t *testing.T) {
	store := kv.NewMemoryStore()
	service := device.NewService(device.NewKVRepository(store))

	_, err := service.Snapshot(context.Background(), "sage")
	assert.ErrorIs(t, err, device.ErrUnavailable)
	assert.NotErrorIs(t, err, device.ErrNotFound)
}

func TestService_UnparsableRegistryIsUnavailable(t *testing.T) {
	store := kv.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Put(ctx, device.RegistryKey, `{not json`))
	service := device.NewService(device.NewKVRepository(store))

	_, err := service.Snapshot(ctx, "sage")
	assert.ErrorIs(t, err, device.ErrUnavailable)
}

func TestService_RecordPress_AppendsExactly(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, service.RecordPress(ctx, "sage", "correct", ptr(1000)))

	snap, err := service.Snapshot(ctx, "sage")
	require.NoError(t, err)
	require.Len(t, snap.Events, 1)
	assert.Equal(t, int64(1000), snap.Events[0].PressTimestamp)
}

func TestService_RecordPress_DuplicatesAllowed(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, service.RecordPress(ctx, "sage", "correct", ptr(1000)))
	require.NoError(t, service.RecordPress(ctx, "sage", "correct", ptr(1000)))

	snap, err := service.Snapshot(ctx, "sage")
	require.NoError(t, err)
	assert.Equal(t, []device.PressEvent{
		{PressTimestamp: 1000},
		{PressTimestamp: 1000},
	}, snap.Events)
}

func TestService_RecordPress_PreservesOrder(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	// Out-of-order timestamps are accepted and kept in insertion order.
	for _, ts := range []int64{300, 100, 200} {
		require.NoError(t, service.RecordPress(ctx, "sage", "correct", ptr(ts)))
	}

	snap, err := service.Snapshot(ctx, "sage")
	require.NoError(t, err)
	require.Len(t, snap.Events, 3)
	assert.Equal(t, int64(300), snap.Events[0].PressTimestamp)
	assert.Equal(t, int64(100), snap.Events[1].PressTimestamp)
	assert.Equal(t, int64(200), snap.Events[2].PressTimestamp)
}

func TestService_RecordPress_InvalidTimestamp(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	assert.ErrorIs(t, service.RecordPress(ctx, "sage", "correct", nil), device.ErrMalformed)
	assert.ErrorIs(t, service.RecordPress(ctx, "sage", "correct", ptr(0)), device.ErrMalformed)
	assert.ErrorIs(t, service.RecordPress(ctx, "sage", "correct", ptr(-5)), device.ErrMalformed)

	snap, err := service.Snapshot(ctx, "sage")
	require.NoError(t, err)
	assert.Empty(t, snap.Events)
}

func TestService_Authorization(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	t.Run("empty password is malformed", func(t *testing.T) {
		err := service.RecordPress(ctx, "sage", "", ptr(1000))
		assert.ErrorIs(t, err, device.ErrMalformed)
	})

	t.Run("wrong password is unauthorized", func(t *testing.T) {
		err := service.RecordPress(ctx, "sage", "wrong", ptr(1000))
		assert.ErrorIs(t, err, device.ErrUnauthorized)
	})

	t.Run("no credential record is misconfigured", func(t *testing.T) {
		// "basil" is registered but was never provisioned a password, so
		// even a plausible password must not authenticate.
		err := service.RecordPress(ctx, "basil", "correct", ptr(1000))
		assert.ErrorIs(t, err, device.ErrMisconfigured)
		assert.NotErrorIs(t, err, device.ErrUnauthorized)
	})
}

func TestService_RecordPing_StampsServerTime(t *testing.T) {
	service, store := newTestService(t)
	ctx := context.Background()

	before := time.Now().Unix()
	ts, err := service.RecordPing(ctx, "sage", "correct")
	require.NoError(t, err)
	after := time.Now().Unix()

	assert.GreaterOrEqual(t, ts, before)
	assert.LessOrEqual(t, ts, after)

	// Only the latest ping is retained.
	raw, err := store.Get(ctx, device.PingKey("sage"))
	require.NoError(t, err)
	assert.NotEmpty(t, raw)

	later, err := service.RecordPing(ctx, "sage", "correct")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, later, ts)

	snap, err := service.Snapshot(ctx, "sage")
	require.NoError(t, err)
	assert.True(t, snap.HasPing)
	assert.Equal(t, later, snap.Ping)
}

func TestService_Snapshot_EmptyDevice(t *testing.T) {
	service, _ := newTestService(t)

	snap, err := service.Snapshot(context.Background(), "sage")
	require.NoError(t, err)
	assert.Empty(t, snap.Events)
	assert.False(t, snap.HasPing)
}

func TestService_Snapshot_Idempotent(t *testing.T) {
	service, _ := newTestService(t)
	ctx := context.Background()

	require.NoError(t, service.RecordPress(ctx, "sage", "correct", ptr(1000)))

	first, err := service.Snapshot(ctx, "sage")
	require.NoError(t, err)
	second, err := service.Snapshot(ctx, "sage")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
