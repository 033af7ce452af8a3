package identity

import (
	"fmt"
	"unicode"

	"courier/internal/crypto"
	"courier/internal/domain"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)
)

// Service manages the long-term signing key using a backing store.
//
// The same P-256 key signs frames and containers and, with --wrap ecdh,
// derives wrapped keys.
type Service struct {
	store domain.IdentityStore
}

// New returns an identity service backed by the given store.
func New(s domain.IdentityStore) *Service { return &Service{store: s} }

// GenerateIdentity creates a new key, saves it encrypted with the passphrase,
// and returns its public key plus a short fingerprint.
func (s *Service) GenerateIdentity(passphrase string) (domain.PublicKey, domain.Fingerprint, error) {
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return domain.PublicKey{}, "", err
	}
	return s.save(passphrase, kp)
}

// ImportIdentity stores an existing 64-character hex private key.
func (s *Service) ImportIdentity(passphrase, privateHex string) (domain.PublicKey, domain.Fingerprint, error) {
	kp, err := crypto.KeyPairFromHex(privateHex)
	if err != nil {
		return domain.PublicKey{}, "", err
	}
	return s.save(passphrase, kp)
}

// LoadIdentity decrypts and returns the stored private scalar.
// Callers should crypto.Wipe it when done.
func (s *Service) LoadIdentity(passphrase string) ([]byte, error) {
	return s.store.LoadIdentity(passphrase)
}

// KeyPair loads the stored identity as a usable key pair.
func (s *Service) KeyPair(passphrase string) (*crypto.KeyPair, error) {
	scalar, err := s.store.LoadIdentity(passphrase)
	if err != nil {
		return nil, err
	}
	defer crypto.Wipe(scalar)
	return crypto.KeyPairFromScalar(scalar)
}

// FingerprintIdentity returns the stored key's public key and fingerprint.
func (s *Service) FingerprintIdentity(passphrase string) (domain.PublicKey, domain.Fingerprint, error) {
	kp, err := s.KeyPair(passphrase)
	if err != nil {
		return domain.PublicKey{}, "", err
	}
	return kp.PublicKey(), crypto.Fingerprint(kp.PublicKey()), nil
}

// Exists reports whether an identity has been stored.
func (s *Service) Exists() (bool, error) { return s.store.HasIdentity() }

func (s *Service) save(passphrase string, kp *crypto.KeyPair) (domain.PublicKey, domain.Fingerprint, error) {
	if !isSecurePassphrase(passphrase) {
		return domain.PublicKey{}, "", ErrWeakPassphrase
	}
	scalar := kp.Scalar()
	defer crypto.Wipe(scalar)
	if err := s.store.SaveIdentity(passphrase, scalar); err != nil {
		return domain.PublicKey{}, "", err
	}
	return kp.PublicKey(), crypto.Fingerprint(kp.PublicKey()), nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
