package crypto

import (
	"crypto/sha256"
	"fmt"
	"io"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/hkdf"

	"courier/internal/domain"
)

const (
	wrapInfo        = "courier/wrap/v1"
	kekCacheTTL     = 10 * time.Minute
	kekCacheCleanup = 20 * time.Minute
)

// PlaceholderWrapper emits the fixed key slot 1..16 the current relay expects.
// It provides no confidentiality.
type PlaceholderWrapper struct{}

// Wrap ignores its inputs and returns 0x01..0x10.
func (PlaceholderWrapper) Wrap(domain.PublicKey, []byte) (domain.WrappedKey, error) {
	var w domain.WrappedKey
	for i := range w {
		w[i] = byte(i + 1)
	}
	return w, nil
}

// ECDHWrapper wraps 16 bytes of session material for a recipient with a key
// derived from ECDH(sender, recipient) through HKDF-SHA256.
//
// Derived key-encryption keys are cached per recipient.
type ECDHWrapper struct {
	keys  *KeyPair
	cache *gocache.Cache
}

// NewECDHWrapper returns a wrapper that agrees keys as keys.
func NewECDHWrapper(keys *KeyPair) *ECDHWrapper {
	return &ECDHWrapper{
		keys:  keys,
		cache: gocache.New(kekCacheTTL, kekCacheCleanup),
	}
}

// Wrap XORs material with the recipient's key-encryption key.
func (w *ECDHWrapper) Wrap(recipient domain.PublicKey, material []byte) (domain.WrappedKey, error) {
	var out domain.WrappedKey
	if len(material) != domain.WrappedKeySize {
		return out, fmt.Errorf("wrap: material is %d bytes, want %d", len(material), domain.WrappedKeySize)
	}
	kek, err := w.kek(recipient)
	if err != nil {
		return out, err
	}
	for i := range out {
		out[i] = material[i] ^ kek[i]
	}
	return out, nil
}

// Unwrap reverses Wrap for a container sent by sender to this key.
func (w *ECDHWrapper) Unwrap(sender domain.PublicKey, wrapped domain.WrappedKey) ([]byte, error) {
	kek, err := w.kek(sender)
	if err != nil {
		return nil, err
	}
	out := make([]byte, domain.WrappedKeySize)
	for i := range out {
		out[i] = wrapped[i] ^ kek[i]
	}
	return out, nil
}

// kek is symmetric in the two parties: the HKDF info orders the keys.
func (w *ECDHWrapper) kek(peer domain.PublicKey) ([]byte, error) {
	id := peer.Hex()
	if v, ok := w.cache.Get(id); ok {
		return v.([]byte), nil
	}
	shared, err := w.keys.SharedSecret(peer)
	if err != nil {
		return nil, fmt.Errorf("wrap: %w", err)
	}
	defer Wipe(shared)

	lo, hi := w.keys.PublicKey(), peer
	if string(lo[:]) > string(hi[:]) {
		lo, hi = hi, lo
	}
	info := make([]byte, 0, len(wrapInfo)+2*domain.PublicKeySize)
	info = append(info, wrapInfo...)
	info = append(info, lo[:]...)
	info = append(info, hi[:]...)

	kek := make([]byte, domain.WrappedKeySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, shared, nil, info), kek); err != nil {
		return nil, fmt.Errorf("wrap: derive: %w", err)
	}
	w.cache.Set(id, kek, gocache.DefaultExpiration)
	return kek, nil
}

var (
	_ domain.KeyWrapper = PlaceholderWrapper{}
	_ domain.KeyWrapper = (*ECDHWrapper)(nil)
)
