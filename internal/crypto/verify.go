package crypto

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"

	"courier/internal/domain"
)

// Verify checks an r || s signature over msg against pub.
func Verify(pub domain.PublicKey, msg []byte, sig domain.Signature) bool {
	if _, err := ecdhPublic(pub); err != nil {
		return false
	}
	key := &ecdsa.PublicKey{
		Curve: elliptic.P256(),
		X:     new(big.Int).SetBytes(pub[:32]),
		Y:     new(big.Int).SetBytes(pub[32:]),
	}
	digest := sha256.Sum256(msg)
	r := new(big.Int).SetBytes(sig[:32])
	s := new(big.Int).SetBytes(sig[32:])
	return ecdsa.Verify(key, digest[:], r, s)
}

// ParsePublicKeyHex decodes a hex public key of exactly PublicKeySize bytes.
//
// The point itself is not checked against the curve; the relay accepts any
// 64-byte address.
func ParsePublicKeyHex(s string) (domain.PublicKey, error) {
	var pub domain.PublicKey
	b, err := hex.DecodeString(s)
	if err != nil {
		return pub, fmt.Errorf("recipient key is not hex: %w", err)
	}
	if len(b) != domain.PublicKeySize {
		return pub, fmt.Errorf("recipient key is %d bytes, want %d", len(b), domain.PublicKeySize)
	}
	copy(pub[:], b)
	return pub, nil
}
