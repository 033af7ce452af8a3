package container

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"courier/internal/crypto"
	"courier/internal/domain"
	"courier/internal/protocol/codec"
)

const (
	sizeField     = 4
	countField    = 1
	dataLenField  = 4
	recipientSlot = domain.PublicKeySize + domain.WrappedKeySize

	// DeclaredOverhead is total_size minus the data length for one recipient.
	DeclaredOverhead = 169

	// LayoutOverhead is the real byte count after the size field, minus the
	// data, for one recipient.
	LayoutOverhead = domain.NonceSize + domain.PublicKeySize + countField +
		recipientSlot + dataLenField + domain.SignatureSize

	minContainer = sizeField + LayoutOverhead - recipientSlot
)

var errNoSigner = errors.New("container: no signing key")

// Size returns the total_size field for dataLen bytes and n >= 1 recipients.
func Size(dataLen, n int) uint32 {
	return uint32(dataLen + DeclaredOverhead + (n-1)*recipientSlot)
}

// EncodedLen returns the full encoded length for dataLen bytes and n recipients.
func EncodedLen(dataLen, n int) int {
	return sizeField + LayoutOverhead + (n-1)*recipientSlot + dataLen
}

// Encoder builds signed single-recipient containers.
type Encoder struct {
	Signer  domain.Signer
	Wrapper domain.KeyWrapper
	// Material supplies the 16 bytes handed to Wrapper. Defaults to crypto/rand.
	Material io.Reader
}

// Encode builds a container from nonce to the hex-encoded recipient key.
func (e *Encoder) Encode(nonce domain.Nonce, recipientHex, text string) ([]byte, error) {
	recipient, err := crypto.ParsePublicKeyHex(recipientHex)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrEncoding, err)
	}
	if !utf8.ValidString(text) {
		return nil, fmt.Errorf("%w: payload text is not valid UTF-8", domain.ErrEncoding)
	}
	return e.EncodeTo(nonce, recipient, []byte(text))
}

// EncodeTo builds a container carrying data to recipient.
func (e *Encoder) EncodeTo(nonce domain.Nonce, recipient domain.PublicKey, data []byte) ([]byte, error) {
	if e.Signer == nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrSigning, errNoSigner)
	}
	wrapped, err := e.wrap(recipient)
	if err != nil {
		return nil, err
	}
	sender := e.Signer.PublicKey()

	b := make([]byte, 0, EncodedLen(len(data), 1))
	b = binary.BigEndian.AppendUint32(b, Size(len(data), 1))
	b = append(b, nonce[:]...)
	b = append(b, sender[:]...)
	b = append(b, 1)
	b = append(b, recipient[:]...)
	b = append(b, wrapped[:]...)
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, data...)

	sig, err := codec.Sign(e.Signer, b)
	if err != nil {
		return nil, err
	}
	return append(b, sig[:]...), nil
}

func (e *Encoder) wrap(recipient domain.PublicKey) (domain.WrappedKey, error) {
	wrapper := e.Wrapper
	if wrapper == nil {
		wrapper = crypto.PlaceholderWrapper{}
	}
	src := e.Material
	if src == nil {
		src = rand.Reader
	}
	material := make([]byte, domain.WrappedKeySize)
	defer crypto.Wipe(material)
	if _, err := io.ReadFull(src, material); err != nil {
		return domain.WrappedKey{}, fmt.Errorf("container: session material: %w", err)
	}
	w, err := wrapper.Wrap(recipient, material)
	if err != nil {
		return domain.WrappedKey{}, fmt.Errorf("%w: %w", domain.ErrEncoding, err)
	}
	return w, nil
}

// Decode parses a container. It checks structure only; use Verify for the
// signature.
func Decode(b []byte) (domain.Container, error) {
	var c domain.Container
	if len(b) < minContainer {
		return c, fmt.Errorf("%w: container is %d bytes, want at least %d",
			domain.ErrProtocolShape, len(b), minContainer)
	}
	c.TotalSize = binary.BigEndian.Uint32(b[0:4])
	off := sizeField
	copy(c.Nonce[:], b[off:])
	off += domain.NonceSize
	copy(c.Sender[:], b[off:])
	off += domain.PublicKeySize
	n := int(b[off])
	off += countField

	if len(b) < minContainer+n*recipientSlot {
		return c, fmt.Errorf("%w: %d recipients do not fit in %d bytes",
			domain.ErrProtocolShape, n, len(b))
	}
	c.Recipients = make([]domain.Recipient, n)
	for i := range c.Recipients {
		copy(c.Recipients[i].PublicKey[:], b[off:])
		off += domain.PublicKeySize
		copy(c.Recipients[i].WrappedKey[:], b[off:])
		off += domain.WrappedKeySize
	}

	dataLen := int(binary.BigEndian.Uint32(b[off:]))
	off += dataLenField
	if have := len(b) - off - domain.SignatureSize; dataLen != have {
		return c, fmt.Errorf("%w: declared %d data bytes, have %d",
			domain.ErrProtocolShape, dataLen, have)
	}
	c.Data = append([]byte(nil), b[off:off+dataLen]...)
	off += dataLen
	copy(c.Signature[:], b[off:])
	return c, nil
}

// Verify decodes b and checks its signature against the embedded sender key.
func Verify(b []byte) (domain.Container, bool, error) {
	c, err := Decode(b)
	if err != nil {
		return c, false, err
	}
	signed := b[:len(b)-domain.SignatureSize]
	return c, codec.Verify(c.Sender, signed, c.Signature), nil
}
