package interfaces

import "context"

// Transport is the byte stream to the relay.
//
// Each Receive returns whatever a single read yields, bounded by the
// transport's maximum reply size. An empty read is an error.
type Transport interface {
	Send(ctx context.Context, frame []byte) error
	Receive(ctx context.Context) ([]byte, error)
	Close() error
}
