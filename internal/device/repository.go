package device

import "context"

// Repository defines the persistence interface for devices.
type Repository interface {
	// Registry returns the full device allow-list.
	Registry(ctx context.Context) ([]string, error)

	// CredentialHash returns the stored password hash for a device, or
	// kv.ErrNotFound if no credential was ever provisioned.
	CredentialHash(ctx context.Context, name string) (string, error)

	// Ledger returns the press ledger for a device. An absent ledger is an
	// empty one, not an error.
	Ledger(ctx context.Context, name string) (*Ledger, error)

	// PutLedger replaces the press ledger for a device as a whole.
	PutLedger(ctx context.Context, name string, ledger *Ledger) error

	// Ping returns the latest liveness timestamp for a device. ok is false
	// when the device has never pinged.
	Ping(ctx context.Context, name string) (ts int64, ok bool, err error)

	// PutPing overwrites the latest liveness timestamp for a device.
	PutPing(ctx context.Context, name string, ts int64) error

	// AddDevice adds a device to the registry. A no-op if already present.
	AddDevice(ctx context.Context, name string) error

	// PutCredentialHash stores the password hash for a device.
	PutCredentialHash(ctx context.Context, name, hash string) error
}
