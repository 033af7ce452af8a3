package store

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"courier/internal/domain"
)

const idFilename = "identity.key.enc"

// ErrNoIdentity is returned when no key file exists yet.
var ErrNoIdentity = errors.New("no stored identity; run `courier keys new`")

// IdentityFileStore persists the private key scalar, encrypted, under dir.
type IdentityFileStore struct {
	dir string
	kdf scryptParams
	mu  sync.Mutex
}

// NewIdentityFileStore returns an IdentityFileStore rooted at dir.
func NewIdentityFileStore(dir string) *IdentityFileStore {
	return &IdentityFileStore{dir: dir, kdf: defaultScrypt}
}

func (s *IdentityFileStore) path() string { return filepath.Join(s.dir, idFilename) }

// SaveIdentity encrypts scalar with passphrase and writes it to disk.
func (s *IdentityFileStore) SaveIdentity(passphrase string, scalar []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(scalar) != domain.PrivateKeySize {
		return errors.New("identity: scalar must be 32 bytes")
	}
	ct, err := seal(passphrase, scalar, s.kdf)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return err
	}
	return writeFile(s.path(), ct, 0o600)
}

// LoadIdentity reads and decrypts the scalar.
func (s *IdentityFileStore) LoadIdentity(passphrase string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := readFile(s.path())
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNoIdentity
	}
	return open(passphrase, b)
}

// HasIdentity reports whether a key file exists.
func (s *IdentityFileStore) HasIdentity() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := os.Stat(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Compile-time assertion that IdentityFileStore implements domain.IdentityStore.
var _ domain.IdentityStore = (*IdentityFileStore)(nil)
