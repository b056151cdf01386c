// Package signature computes the deterministic content digest used to detect
// repeat submissions of the same logical record.
//
// Compute selects a fixed, ordered subset of record columns — deliberately
// excluding the timestamp, the score, and the free-text evaluation notes,
// which change between attempts even when the substantive data has not —
// canonicalizes numeric values by rounding to 6 decimal places, serializes
// the field→value map as compact sorted-key JSON, and hashes the bytes with
// SHA-256.
//
// CoreFingerprint digests only the identity/financial core and backs the
// change-triggered auto-save.
package signature
