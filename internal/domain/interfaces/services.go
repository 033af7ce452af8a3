package interfaces

import (
	"context"

	domaintypes "courier/internal/domain/types"
)

// IdentityService creates, imports and loads the local signing key.
type IdentityService interface {
	GenerateIdentity(passphrase string) (domaintypes.PublicKey, domaintypes.Fingerprint, error)
	ImportIdentity(passphrase, privateHex string) (domaintypes.PublicKey, domaintypes.Fingerprint, error)
	LoadIdentity(passphrase string) ([]byte, error)
}

// SessionService drives one authenticated connection to the relay.
type SessionService interface {
	Handshake(ctx context.Context) error
	Send(ctx context.Context, recipientHex, text string) error
	Fetch(ctx context.Context) (*domaintypes.Delivery, error)
	State() domaintypes.SessionState
	Close() error
}

// MessageService sends and fetches payloads and keeps local history.
type MessageService interface {
	SendMessage(ctx context.Context, recipientHex, text string) error
	FetchMessage(ctx context.Context) (*domaintypes.Delivery, error)
	History(ctx context.Context, limit int) ([]domaintypes.HistoryEntry, error)
}
