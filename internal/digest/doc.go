// Package digest computes the SHA-256 fingerprints validoc exchanges with the
// document service. Digests are always rendered as 64 lowercase hex characters.
package digest
