package types

import "time"

// Delivery is a payload handed back by the relay on a fetch.
type Delivery struct {
	// Header holds reply bytes [0:2]; their meaning is not defined by the
	// protocol and they are kept only for diagnostics.
	Header [2]byte
	Nonce  Nonce
	From   PublicKey
	Data   []byte
}

// Direction tells whether a history entry was sent or received.
type Direction string

const (
	DirectionSent     Direction = "sent"
	DirectionReceived Direction = "received"
)

// HistoryEntry is one locally recorded message.
type HistoryEntry struct {
	ID        int64
	Direction Direction
	Peer      PublicKey
	Data      []byte
	At        time.Time
}
