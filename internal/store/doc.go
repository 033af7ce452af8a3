// Package store provides local persistence for the relay client.
//
// It contains concrete implementations of the domain storage interfaces:
//   - IdentityFileStore keeps the P-256 private scalar in a JSON key file,
//     sealed with XChaCha20-Poly1305 under a scrypt-derived key and replaced
//     atomically on write.
//   - HistorySQLStore records sent and fetched payloads in SQLite.
//
// Stored files live under the configured home directory.
package store
