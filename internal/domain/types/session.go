package types

// SessionState is the position of a session in the handshake/exchange cycle.
type SessionState int

const (
	StateUnauthenticated SessionState = iota
	StateAwaitingNonce
	StateAuthenticated
	StateClosed
	StateFailed
)

// String returns the state's name.
func (s SessionState) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAwaitingNonce:
		return "awaiting-nonce"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return "invalid"
	}
}
