// Package cache provides the shared read-through store for remote API
// payloads.
//
// It provides a Cache interface with memory and Redis implementations, a
// deterministic cache key scheme, and a TTL policy. Entries older than the
// policy TTL are treated as absent and evicted lazily on read.
package cache
