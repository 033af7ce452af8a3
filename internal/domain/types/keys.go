package types

import "encoding/hex"

const (
	// PublicKeySize is the length of an uncompressed P-256 point without the
	// 0x04 prefix (X || Y).
	PublicKeySize = 64
	// PrivateKeySize is the length of a P-256 scalar.
	PrivateKeySize = 32
	// SignatureSize is the length of a raw r || s ECDSA signature.
	SignatureSize = 64
	// NonceSize is the length of a relay-issued nonce.
	NonceSize = 16
	// WrappedKeySize is the length of a per-recipient wrapped key.
	WrappedKeySize = 16
)

// PublicKey is a P-256 public key as it travels on the wire.
type PublicKey [PublicKeySize]byte

// Slice returns the key as a []byte.
func (p PublicKey) Slice() []byte { return p[:] }

// Hex returns the lowercase hex encoding of the key.
func (p PublicKey) Hex() string { return hex.EncodeToString(p[:]) }

// Nonce is the 16-byte challenge the relay issues on every round trip.
type Nonce [NonceSize]byte

// Slice returns the nonce as a []byte.
func (n Nonce) Slice() []byte { return n[:] }

// IsZero reports whether no nonce has been received yet.
func (n Nonce) IsZero() bool { return n == Nonce{} }

// Signature is a raw r || s ECDSA signature.
type Signature [SignatureSize]byte

// Slice returns the signature as a []byte.
func (s Signature) Slice() []byte { return s[:] }

// WrappedKey is the per-recipient key slot carried in a container.
type WrappedKey [WrappedKeySize]byte

// Slice returns the wrapped key as a []byte.
func (w WrappedKey) Slice() []byte { return w[:] }
