package reply_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/domain"
	"courier/internal/protocol/reply"
)

func seq(n int) []byte {
	b := make([]byte, n)
	for i := range b {
		b[i] = byte(i)
	}
	return b
}

// fetchReply builds a reply with a delivery from sender carrying data.
func fetchReply(sender byte, data []byte, declared int) []byte {
	b := make([]byte, reply.DataStart, reply.DataStart+len(data))
	copy(b[reply.NonceStart:], bytes.Repeat([]byte{0xEE}, domain.NonceSize))
	copy(b[reply.SenderStart:], bytes.Repeat([]byte{sender}, domain.PublicKeySize))
	binary.BigEndian.PutUint32(b[reply.DataLenStart:], uint32(declared))
	return append(b, data...)
}

func TestNonce_TwentyByteReply(t *testing.T) {
	b := seq(20)
	n, err := reply.Nonce(b)
	require.NoError(t, err)
	assert.Equal(t, b[2:18], n[:])
}

func TestNonce_TooShort(t *testing.T) {
	_, err := reply.Nonce(seq(17))
	require.ErrorIs(t, err, domain.ErrProtocolShape)

	_, err = reply.Nonce(nil)
	require.ErrorIs(t, err, domain.ErrProtocolShape)

	_, err = reply.Nonce(seq(18))
	require.NoError(t, err)
}

func TestFetch_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		len  int
		want reply.FetchResult
	}{
		{"empty", 0, reply.NoData},
		{"17 bytes", 17, reply.NoData},
		{"18 bytes", 18, reply.NoData},
		{"19 bytes", 19, reply.Incomplete},
		{"186 bytes", 186, reply.Incomplete},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, got, err := reply.Fetch(seq(tt.len))
			require.NoError(t, err)
			assert.Nil(t, d)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFetch_19BytesAttemptsDecode(t *testing.T) {
	_, got, _ := reply.Fetch(seq(19))
	assert.NotEqual(t, reply.NoData, got)
}

func TestFetch_Delivery(t *testing.T) {
	b := fetchReply(0x42, []byte("hello"), 5)
	d, got, err := reply.Fetch(b)
	require.NoError(t, err)
	require.Equal(t, reply.HasData, got)

	assert.Equal(t, []byte("hello"), d.Data)
	assert.Equal(t, bytes.Repeat([]byte{0x42}, 64), d.From[:])
	assert.Equal(t, bytes.Repeat([]byte{0xEE}, 16), d.Nonce[:])
}

func TestFetch_IgnoresTrailingBytes(t *testing.T) {
	b := fetchReply(1, []byte("hi!!"), 2)
	d, _, err := reply.Fetch(b)
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), d.Data)
}

func TestFetch_ZeroLengthData(t *testing.T) {
	d, got, err := reply.Fetch(fetchReply(1, nil, 0))
	require.NoError(t, err)
	assert.Equal(t, reply.HasData, got)
	assert.Empty(t, d.Data)
}

func TestFetch_DeclaredLengthOverruns(t *testing.T) {
	d, _, err := reply.Fetch(fetchReply(1, []byte("abc"), 300))
	require.ErrorIs(t, err, domain.ErrProtocolShape)
	assert.Nil(t, d)
	assert.Contains(t, err.Error(), "declared 300 data bytes, reply has 3")
}
