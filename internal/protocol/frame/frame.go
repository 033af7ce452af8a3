package frame

import (
	"courier/internal/domain"
	"courier/internal/protocol/codec"
)

// Sizes of the fixed frames.
const (
	RequestNonceSize = 1
	AuthenticateSize = 1 + domain.NonceSize + domain.PublicKeySize + domain.SignatureSize
	FetchDataSize    = 1 + domain.NonceSize + domain.SignatureSize
)

// RequestNonce returns the single-byte nonce request.
func RequestNonce() []byte {
	return []byte{byte(domain.OpRequestNonce)}
}

// Authenticate proves possession of signer's key against nonce.
func Authenticate(signer domain.Signer, nonce domain.Nonce) ([]byte, error) {
	if signer == nil {
		return signed(nil, nil)
	}
	pub := signer.PublicKey()
	b := make([]byte, 0, AuthenticateSize)
	b = append(b, byte(domain.OpAuthenticate))
	b = append(b, nonce[:]...)
	b = append(b, pub[:]...)
	return signed(signer, b)
}

// FetchData asks for the next payload queued for signer's key.
func FetchData(signer domain.Signer, nonce domain.Nonce) ([]byte, error) {
	b := make([]byte, 0, FetchDataSize)
	b = append(b, byte(domain.OpFetchData))
	b = append(b, nonce[:]...)
	return signed(signer, b)
}

// SendData prefixes an encoded container with the send opcode. The
// container carries its own signature; no second one is added.
func SendData(container []byte) []byte {
	b := make([]byte, 0, 1+len(container))
	b = append(b, byte(domain.OpSendData))
	return append(b, container...)
}

// signed appends the signature over b's padded form. Appending the
// signature is always the last step.
func signed(signer domain.Signer, b []byte) ([]byte, error) {
	sig, err := codec.Sign(signer, b)
	if err != nil {
		return nil, err
	}
	return append(b, sig[:]...), nil
}

// Opcode returns the opcode of a built frame.
func Opcode(frame []byte) domain.Opcode {
	if len(frame) == 0 {
		return 0
	}
	return domain.Opcode(frame[0])
}
