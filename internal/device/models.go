// Package device provides the device registry, credential gate, and press
// event ledger for WhenPress.
package device

import "errors"

// Domain errors. Every failure is terminal for the request and fails closed.
var (
	// ErrNotFound means the device identifier is not in the registry.
	ErrNotFound = errors.New("device not found")

	// ErrUnavailable means the registry or a stored document could not be
	// read or parsed. Distinct from ErrNotFound.
	ErrUnavailable = errors.New("device store unavailable")

	// ErrMalformed means a required request field is missing or invalid.
	ErrMalformed = errors.New("malformed request")

	// ErrMisconfigured means the device is registered but no credential was
	// ever provisioned for it.
	ErrMisconfigured = errors.New("device has no credential")

	// ErrUnauthorized means the supplied password does not match the
	// device's credential.
	ErrUnauthorized = errors.New("invalid credentials")
)

// RegistryKey is the store key holding the JSON array of device identifiers.
const RegistryKey = "devices"

// CredentialKey returns the store key for a device's hashed password.
func CredentialKey(name string) string { return "auth:" + name }

// LedgerKey returns the store key for a device's press event ledger.
func LedgerKey(name string) string { return "data:" + name }

// PingKey returns the store key for a device's latest liveness ping.
func PingKey(name string) string { return "ping:" + name }

// PressEvent is a single recorded button press.
type PressEvent struct {
	// PressTimestamp is the press time in epoch seconds, as reported by the
	// device. It is stored exactly as posted.
	PressTimestamp int64 `json:"pressTimestamp"`
}

// Ledger is the full press history for one device. Events are kept in
// insertion order and the document is always replaced as a whole.
type Ledger struct {
	Events []PressEvent `json:"events"`
}

// Snapshot is the read-side view of one device: its ledger plus the latest
// ping, if any.
type Snapshot struct {
	Name   string
	Events []PressEvent

	// Ping is the epoch-seconds timestamp of the most recent liveness
	// signal; HasPing is false when the device has never pinged.
	Ping    int64
	HasPing bool
}
