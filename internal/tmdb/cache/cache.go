// Package cache provides a caching layer for TMDB API responses so
// repeated lookups and bulk imports do not hammer the API.
package cache

import "time"

// Cache defines the interface for caching TMDB responses.
type Cache interface {
	// Get retrieves data by key. Returns the data and true if found and
	// not expired, otherwise nil and false.
	Get(key string) ([]byte, bool)

	// Set stores data under key with the given TTL.
	Set(key string, data []byte, ttl time.Duration) error

	// Clear removes all entries.
	Clear() error

	// Close releases resources.
	Close() error
}
