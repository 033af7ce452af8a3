// Package crypto exposes the primitives the relay client needs.
//
// Contents
//
//   - P-256 key pairs: generation, import from a hex scalar, raw r||s ECDSA
//     signatures over SHA-256 (KeyPair, Verify)
//   - Recipient key parsing (ParsePublicKeyHex)
//   - Key slot wrapping for containers (PlaceholderWrapper, ECDHWrapper)
//   - Best-effort memory wiping for sensitive byte slices (Wipe)
//   - Short public-key fingerprints for display/logging (Fingerprint)
//
// # Notes
//
// Public keys use the 64-byte X||Y encoding the relay puts on the wire, not
// the 65-byte SEC 1 form with a leading 0x04.
package crypto
