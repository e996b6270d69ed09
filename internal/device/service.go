package device

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/whenpress/whenpress/internal/auth"
	"github.com/whenpress/whenpress/internal/kv"
)

// Service provides device operations. The store handle is passed in at
// construction; there is no ambient state and nothing is cached between
// requests.
type Service struct {
	repo Repository
	now  func() time.Time
}

// NewService creates a new device service.
func NewService(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Exists checks the device against the registry allow-list. The match is
// exact and case-sensitive. Returns ErrNotFound for unknown devices and
// ErrUnavailable when the registry itself cannot be read.
func (s *Service) Exists(ctx context.Context, name string) error {
	names, err := s.repo.Registry(ctx)
	if err != nil {
		return err
	}

	for _, existing := range names {
		if existing == name {
			return nil
		}
	}
	return ErrNotFound
}

// authorize admits a mutating request for a device. Each step is a terminal
// rejection point, in order: missing password, missing credential record,
// credential mismatch.
func (s *Service) authorize(ctx context.Context, name, password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrMalformed)
	}

	hash, err := s.repo.CredentialHash(ctx, name)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return ErrMisconfigured
		}
		return fmt.Errorf("%w: read credential: %v", ErrUnavailable, err)
	}

	if !auth.VerifyPassword(password, hash) {
		return ErrUnauthorized
	}
	return nil
}

// RecordPress appends one press event to the device's ledger. The timestamp
// is optional at the wire level; a nil or non-positive value is rejected as
// malformed only after the registry and credential checks, so an unregistered
// device sees not-found no matter what it posted.
//
// The timestamp is stored exactly as posted: no server-side re-stamping, no
// deduplication, no ordering check. The ledger is read, extended by one
// event, and written back whole. Two concurrent appends on the same device
// can lose one of the two events; with one human button per device that race
// is accepted rather than locked away.
func (s *Service) RecordPress(ctx context.Context, name, password string, pressTimestamp *int64) error {
	if err := s.Exists(ctx, name); err != nil {
		return err
	}
	if err := s.authorize(ctx, name, password); err != nil {
		return err
	}

	if pressTimestamp == nil {
		return fmt.Errorf("%w: pressTimestamp is required", ErrMalformed)
	}
	if *pressTimestamp <= 0 {
		return fmt.Errorf("%w: pressTimestamp must be a positive integer", ErrMalformed)
	}

	ledger, err := s.repo.Ledger(ctx, name)
	if err != nil {
		return err
	}
	ledger.Events = append(ledger.Events, PressEvent{PressTimestamp: *pressTimestamp})

	return s.repo.PutLedger(ctx, name, ledger)
}

// RecordPing overwrites the device's liveness timestamp with the current
// server time. Returns the recorded epoch-seconds timestamp.
func (s *Service) RecordPing(ctx context.Context, name, password string) (int64, error) {
	if err := s.Exists(ctx, name); err != nil {
		return 0, err
	}
	if err := s.authorize(ctx, name, password); err != nil {
		return 0, err
	}

	ts := s.now().Unix()
	if err := s.repo.PutPing(ctx, name, ts); err != nil {
		return 0, err
	}
	return ts, nil
}

// Snapshot returns the device's full press history and latest ping. It has
// no side effects; an absent ledger reads as zero presses.
func (s *Service) Snapshot(ctx context.Context, name string) (*Snapshot, error) {
	if err := s.Exists(ctx, name); err != nil {
		return nil, err
	}

	ledger, err := s.repo.Ledger(ctx, name)
	if err != nil {
		return nil, err
	}

	ping, hasPing, err := s.repo.Ping(ctx, name)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Name:    name,
		Events:  ledger.Events,
		Ping:    ping,
		HasPing: hasPing,
	}, nil
}
