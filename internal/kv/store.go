// Package kv provides the string-keyed value store WhenPress persists into.
package kv

import (
	"context"
	"errors"
)

// Store errors.
var (
	// ErrNotFound is returned when a key has no value.
	ErrNotFound = errors.New("key not found")
)

// Store is a durable string-keyed store. It is the only shared resource in the
// system; there are no transactions and no optimistic concurrency control, so
// read-modify-write sequences on the same key can lose updates under
// concurrent writers.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Put stores value under key, replacing any existing value.
	Put(ctx context.Context, key, value string) error

	// List returns all keys with the given prefix, in lexical order.
	List(ctx context.Context, prefix string) ([]string, error)
}
