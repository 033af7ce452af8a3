package interfaces

import domaintypes "courier/internal/domain/types"

// Signer produces signatures with the session's private key.
type Signer interface {
	Sign(msg []byte) (domaintypes.Signature, error)
	PublicKey() domaintypes.PublicKey
}

// KeyWrapper produces the wrapped key slot for a container recipient.
type KeyWrapper interface {
	Wrap(
		recipient domaintypes.PublicKey,
		material []byte,
	) (domaintypes.WrappedKey, error)
}
