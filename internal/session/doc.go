// Package session holds the per-session mutable state threaded through the
// scoring and save components: the working candidate, the prospect list and
// its edit cursor, the signature of the last successful save, and the
// auto-save fingerprint.
//
// State is caller-owned — nothing in this module mutates it behind the
// caller's back. Store is the thread-safe registry the HTTP layer uses to
// find a session by ID; entries idle longer than the TTL are evicted by the
// background Run loop. The clock is injectable for deterministic tests.
package session
