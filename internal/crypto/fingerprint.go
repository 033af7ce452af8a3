package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"courier/internal/domain"
)

// Fingerprint returns a short hex fingerprint of a public key.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(pub domain.PublicKey) domain.Fingerprint {
	sum := sha256.Sum256(pub[:])
	return domain.Fingerprint(hex.EncodeToString(sum[:10]))
}
