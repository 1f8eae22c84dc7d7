// Package store provides the in-memory key-value store backing session state.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a key does not exist in the store.
var ErrNotFound = errors.New("store: key not found")

// Store defines the interface for session-scoped state storage.
// Values are opaque bytes; list operations keep insertion order, which makes
// them a natural fit for chronological conversation history.
type Store interface {
	// Basic K/V operations
	Set(key string, value []byte, ttl time.Duration) error
	Get(key string) ([]byte, error)
	Delete(key string) error
	Exists(key string) (bool, error)

	// List operations
	RPush(key string, values ...[]byte) error
	LRange(key string, start, stop int64) ([][]byte, error)
	LTrim(key string, start, stop int64) error
	LLen(key string) (int64, error)

	// Expire sets or refreshes the TTL on an existing key.
	Expire(key string, ttl time.Duration) error

	// Clear removes all data.
	Clear() error

	// Close releases resources held by the store.
	Close() error
}
