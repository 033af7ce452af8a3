package interfaces

import (
	"context"

	domaintypes "courier/internal/domain/types"
)

// IdentityStore persists the long-term private key scalar.
type IdentityStore interface {
	SaveIdentity(passphrase string, scalar []byte) error
	LoadIdentity(passphrase string) ([]byte, error)
	HasIdentity() (bool, error)
}

// HistoryStore records messages sent and received.
type HistoryStore interface {
	Append(ctx context.Context, entry domaintypes.HistoryEntry) (int64, error)
	List(ctx context.Context, limit int) ([]domaintypes.HistoryEntry, error)
	Close() error
}
