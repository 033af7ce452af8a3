package codec

import (
	"errors"
	"fmt"

	"courier/internal/crypto"
	"courier/internal/domain"
)

// BlockSize is the signing block size.
const BlockSize = 64

var errNoSigner = errors.New("no signing key")

// PaddedLen returns the length Pad produces for n input bytes.
func PaddedLen(n int) int { return n + BlockSize - n%BlockSize }

// Pad returns a copy of buf followed by BlockSize - len(buf)%BlockSize zero bytes.
func Pad(buf []byte) []byte {
	out := make([]byte, PaddedLen(len(buf)))
	copy(out, buf)
	return out
}

// Sign signs the padded form of buf.
func Sign(signer domain.Signer, buf []byte) (domain.Signature, error) {
	if signer == nil {
		return domain.Signature{}, fmt.Errorf("%w: %w", domain.ErrSigning, errNoSigner)
	}
	sig, err := signer.Sign(Pad(buf))
	if err != nil {
		return domain.Signature{}, fmt.Errorf("%w: %w", domain.ErrSigning, err)
	}
	return sig, nil
}

// Verify checks sig over the padded form of buf.
func Verify(pub domain.PublicKey, buf []byte, sig domain.Signature) bool {
	return crypto.Verify(pub, Pad(buf), sig)
}
