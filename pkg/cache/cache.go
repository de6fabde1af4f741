// Package cache stores rendered artifacts, geocoder lookups and raw
// geocoder responses.
//
// Backends implement [Cache]: [FileCache] for the CLI, [RedisCache] for
// servers sharing one store and [Null] when caching is disabled. Keys come
// from a [Keyer] so every caller hashes its inputs the same way.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Default time-to-live values per entry kind.
const (
	// TTLGeocode keeps resolved locations for a month.
	TTLGeocode = 30 * 24 * time.Hour
	// TTLGeocodeUnknown keeps failed lookups shorter so they are retried.
	TTLGeocodeUnknown = 24 * time.Hour
	// TTLArtifact keeps rendered output for a week.
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry expiry.
// A ttl of 0 stores the entry without expiry. A missing or expired key is
// a miss, never an error.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Null stores nothing; every Get misses.
type Null struct{}

// NewNullCache returns a [Null] cache.
func NewNullCache() Cache { return Null{} }

func (Null) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Null) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Null) Delete(context.Context, string) error                     { return nil }
func (Null) Close() error                                             { return nil }

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
