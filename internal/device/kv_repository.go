package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/whenpress/whenpress/internal/kv"
)

// KVRepository is a key-value store backed implementation of Repository.
//
// Key layout:
//
//	devices       -> JSON array of device identifiers
//	auth:<name>   -> bcrypt hash string
//	data:<name>   -> JSON {"events":[{"pressTimestamp":...},...]}
//	ping:<name>   -> stringified integer epoch seconds
type KVRepository struct {
	store kv.Store
}

// NewKVRepository creates a repository over the given store.
func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{store: store}
}

// Registry returns the full device allow-list. A missing or unparsable
// registry document is ErrUnavailable, never an empty list.
func (r *KVRepository) Registry(ctx context.Context) ([]string, error) {
	raw, err := r.store.Get(ctx, RegistryKey)
	if err != nil {
		return nil, fmt.Errorf("%w: read registry: %v", ErrUnavailable, err)
	}

	var names []string
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("%w: parse registry: %v", ErrUnavailable, err)
	}
	return names, nil
}

// CredentialHash returns the stored password hash for a device.
func (r *KVRepository) CredentialHash(ctx context.Context, name string) (string, error) {
	return r.store.Get(ctx, CredentialKey(name))
}

// Ledger returns the press ledger for a device, empty if none exists yet.
func (r *KVRepository) Ledger(ctx context.Context, name string) (*Ledger, error) {
	raw, err := r.store.Get(ctx, LedgerKey(name))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return &Ledger{}, nil
		}
		return nil, fmt.Errorf("%w: read ledger: %v", ErrUnavailable, err)
	}

	var ledger Ledger
	if err := json.Unmarshal([]byte(raw), &ledger); err != nil {
		return nil, fmt.Errorf("%w: parse ledger: %v", ErrUnavailable, err)
	}
	return &ledger, nil
}

// PutLedger replaces the press ledger for a device as a whole.
func (r *KVRepository) PutLedger(ctx context.Context, name string, ledger *Ledger) error {
	raw, err := json.Marshal(ledger)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	return r.store.Put(ctx, LedgerKey(name), string(raw))
}

// Ping returns the latest liveness timestamp for a device.
func (r *KVRepository) Ping(ctx context.Context, name string) (int64, bool, error) {
	raw, err := r.store.Get(ctx, PingKey(name))
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("%w: read ping: %v", ErrUnavailable, err)
	}

	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: parse ping: %v", ErrUnavailable, err)
	}
	return ts, true, nil
}

// PutPing overwrites the latest liveness timestamp for a device.
func (r *KVRepository) PutPing(ctx context.Context, name string, ts int64) error {
	return r.store.Put(ctx, PingKey(name), strconv.FormatInt(ts, 10))
}

// AddDevice adds a device to the registry, creating the registry document if
// it does not exist yet. Used by the admin CLI only; the API server never
// writes the registry.
func (r *KVRepository) AddDevice(ctx context.Context, name string) error {
	var names []string
	raw, err := r.store.Get(ctx, RegistryKey)
	switch {
	case errors.Is(err, kv.ErrNotFound):
		// first device
	case err != nil:
		return fmt.Errorf("%w: read registry: %v", ErrUnavailable, err)
	default:
		if err := json.Unmarshal([]byte(raw), &names); err != nil {
			return fmt.Errorf("%w: parse registry: %v", ErrUnavailable, err)
		}
	}

	for _, existing := range names {
		if existing == name {
			return nil
		}
	}
	names = append(names, name)

	encoded, err := json.Marshal(names)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	return r.store.Put(ctx, RegistryKey, string(encoded))
}

// PutCredentialHash stores the password hash for a device.
func (r *KVRepository) PutCredentialHash(ctx context.Context, name, hash string) error {
	return r.store.Put(ctx, CredentialKey(name), hash)
}

// Provisioned enumerates the credential keys in the store and returns the set
// of device names that have a password hash. Admin-side reporting only; the
// press and ping paths always read a single device's credential directly.
func (r *KVRepository) Provisioned(ctx context.Context) (map[string]bool, error) {
	keys, err := r.store.List(ctx, CredentialKey(""))
	if err != nil {
		return nil, fmt.Errorf("%w: list credentials: %v", ErrUnavailable, err)
	}

	names := make(map[string]bool, len(keys))
	for _, key := range keys {
		names[key[len(CredentialKey("")):]] = true
	}
	return names, nil
}

// Pinged enumerates the ping keys in the store and returns the set of device
// names that have reported liveness at least once.
func (r *KVRepository) Pinged(ctx context.Context) (map[string]bool, error) {
	keys, err := r.store.List(ctx, PingKey(""))
	if err != nil {
		return nil, fmt.Errorf("%w: list pings: %v", ErrUnavailable, err)
	}

	names := make(map[string]bool, len(keys))
	for _, key := range keys {
		names[key[len(PingKey("")):]] = true
	}
	return names, nil
}
