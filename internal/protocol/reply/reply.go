package reply

import (
	"encoding/binary"
	"fmt"

	"courier/internal/domain"
)

const (
	NonceStart = 2
	NonceEnd   = NonceStart + domain.NonceSize // 18

	SenderStart = 38
	SenderEnd   = SenderStart + domain.PublicKeySize // 102

	DataLenStart = 183
	DataLenEnd   = DataLenStart + 4 // 187
	DataStart    = DataLenEnd

	// MinNonceReply is the shortest reply that carries a nonce. A fetch
	// reply of this length or less carries no delivery.
	MinNonceReply = NonceEnd
)

// Nonce extracts the next session nonce from any reply.
func Nonce(b []byte) (domain.Nonce, error) {
	var n domain.Nonce
	if len(b) < MinNonceReply {
		return n, fmt.Errorf("%w: reply is %d bytes, need %d for a nonce",
			domain.ErrProtocolShape, len(b), MinNonceReply)
	}
	copy(n[:], b[NonceStart:NonceEnd])
	return n, nil
}

// FetchResult classifies a fetch reply.
type FetchResult int

const (
	// NoData: the reply is the "nothing queued" sentinel (18 bytes or less).
	NoData FetchResult = iota
	// Incomplete: longer than the sentinel but shorter than the data header.
	Incomplete
	// HasData: a delivery was decoded.
	HasData
)

func (r FetchResult) String() string {
	switch r {
	case NoData:
		return "no data"
	case Incomplete:
		return "incomplete"
	case HasData:
		return "data"
	default:
		return "invalid"
	}
}

// Fetch decodes a fetch reply. Short replies are classified rather than
// rejected; an error means the reply declares more data than it holds.
func Fetch(b []byte) (*domain.Delivery, FetchResult, error) {
	if len(b) <= MinNonceReply {
		return nil, NoData, nil
	}
	if len(b) < DataStart {
		return nil, Incomplete, nil
	}

	d := &domain.Delivery{}
	copy(d.Header[:], b[:NonceStart])
	copy(d.Nonce[:], b[NonceStart:NonceEnd])
	copy(d.From[:], b[SenderStart:SenderEnd])

	n := binary.BigEndian.Uint32(b[DataLenStart:DataLenEnd])
	if avail := uint64(len(b) - DataStart); uint64(n) > avail {
		return nil, Incomplete, fmt.Errorf("%w: declared %d data bytes, reply has %d",
			domain.ErrProtocolShape, n, avail)
	}
	d.Data = append([]byte(nil), b[DataStart:DataStart+int(n)]...)
	return d, HasData, nil
}
