package cache

import (
	"context"
	"errors"
	"strings"
	"time"
)

// MaxKeyLength bounds a key in bytes. Keys built from long search strings
// or many ids can exceed it and are rejected on Set.
const MaxKeyLength = 512

var (
	// ErrInvalidKey is returned by Set for empty, blank or multi-line keys.
	ErrInvalidKey = errors.New("cache: key is invalid")

	// ErrKeyTooLong is returned by Set for keys over MaxKeyLength.
	ErrKeyTooLong = errors.New("cache: key exceeds max length")
)

// Cache stores the JSON payloads of query results keyed by BuildKey.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Get never errors. A missing or expired entry is (nil, false); an expired
//   entry is evicted by the read that finds it.
// - Set replaces the whole entry, so a key has at most one payload.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value. ttl <= 0 uses the store's policy default.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete is idempotent.
	Delete(ctx context.Context, key string) error

	// DeletePrefix evicts every key starting with prefix (see KeyPrefix)
	// and returns the number evicted.
	DeletePrefix(ctx context.Context, prefix string) (int, error)

	Clear(ctx context.Context) error
}

// ValidateKey reports whether key may be stored.
func ValidateKey(key string) error {
	switch {
	case strings.TrimSpace(key) == "", strings.ContainsAny(key, "\r\n"):
		return ErrInvalidKey
	case len(key) > MaxKeyLength:
		return ErrKeyTooLong
	}
	return nil
}
