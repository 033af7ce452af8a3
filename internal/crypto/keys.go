package crypto

import (
	"crypto/ecdh"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math/big"

	"courier/internal/domain"
)

var (
	// ErrInvalidPrivateKey is returned for scalars outside the P-256 group order.
	ErrInvalidPrivateKey = errors.New("invalid P-256 private key")
	// ErrInvalidPublicKey is returned for points not on the P-256 curve.
	ErrInvalidPublicKey = errors.New("invalid P-256 public key")
)

// KeyPair is a P-256 signing key with its wire-encoded public half.
//
// The same scalar is exposed as an ECDH key so it can also serve key agreement.
type KeyPair struct {
	signing *ecdsa.PrivateKey
	agree   *ecdh.PrivateKey
	pub     domain.PublicKey
}

// GenerateKeyPair returns a fresh random key pair.
func GenerateKeyPair() (*KeyPair, error) {
	k, err := ecdh.P256().GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return fromECDH(k)
}

// KeyPairFromScalar builds a key pair from a 32-byte private scalar.
func KeyPairFromScalar(scalar []byte) (*KeyPair, error) {
	if len(scalar) != domain.PrivateKeySize {
		return nil, fmt.Errorf("%w: want %d bytes, got %d",
			ErrInvalidPrivateKey, domain.PrivateKeySize, len(scalar))
	}
	k, err := ecdh.P256().NewPrivateKey(scalar)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	return fromECDH(k)
}

// KeyPairFromHex builds a key pair from a hex-encoded private scalar.
func KeyPairFromHex(s string) (*KeyPair, error) {
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPrivateKey, err)
	}
	defer Wipe(b)
	return KeyPairFromScalar(b)
}

func fromECDH(k *ecdh.PrivateKey) (*KeyPair, error) {
	// Bytes() is 0x04 || X || Y.
	point := k.PublicKey().Bytes()
	if len(point) != 1+domain.PublicKeySize {
		return nil, ErrInvalidPublicKey
	}
	var pub domain.PublicKey
	copy(pub[:], point[1:])

	signing := &ecdsa.PrivateKey{
		PublicKey: ecdsa.PublicKey{
			Curve: elliptic.P256(),
			X:     new(big.Int).SetBytes(pub[:32]),
			Y:     new(big.Int).SetBytes(pub[32:]),
		},
		D: new(big.Int).SetBytes(k.Bytes()),
	}
	return &KeyPair{signing: signing, agree: k, pub: pub}, nil
}

// PublicKey returns the wire encoding of the public key. A nil key pair
// yields the zero key; Sign on it then fails.
func (k *KeyPair) PublicKey() domain.PublicKey {
	if k == nil {
		return domain.PublicKey{}
	}
	return k.pub
}

// Scalar returns a copy of the private scalar. Callers should Wipe it.
func (k *KeyPair) Scalar() []byte { return k.agree.Bytes() }

// PrivateHex returns the hex encoding of the private scalar.
func (k *KeyPair) PrivateHex() string {
	b := k.Scalar()
	defer Wipe(b)
	return hex.EncodeToString(b)
}

// Sign hashes msg with SHA-256 and signs it, returning r || s.
func (k *KeyPair) Sign(msg []byte) (domain.Signature, error) {
	var sig domain.Signature
	if k == nil || k.signing == nil {
		return sig, ErrInvalidPrivateKey
	}
	digest := sha256.Sum256(msg)
	r, s, err := ecdsa.Sign(rand.Reader, k.signing, digest[:])
	if err != nil {
		return sig, err
	}
	r.FillBytes(sig[:32])
	s.FillBytes(sig[32:])
	return sig, nil
}

// SharedSecret runs ECDH between this key and peer.
func (k *KeyPair) SharedSecret(peer domain.PublicKey) ([]byte, error) {
	if k == nil || k.agree == nil {
		return nil, ErrInvalidPrivateKey
	}
	pub, err := ecdhPublic(peer)
	if err != nil {
		return nil, err
	}
	return k.agree.ECDH(pub)
}

func ecdhPublic(p domain.PublicKey) (*ecdh.PublicKey, error) {
	point := make([]byte, 0, 1+domain.PublicKeySize)
	point = append(point, 0x04)
	point = append(point, p[:]...)
	pub, err := ecdh.P256().NewPublicKey(point)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	return pub, nil
}

// Compile-time assertion that KeyPair implements domain.Signer.
var _ domain.Signer = (*KeyPair)(nil)
