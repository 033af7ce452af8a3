package container_test

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/crypto"
	"courier/internal/domain"
	"courier/internal/protocol/codec"
	"courier/internal/protocol/container"
)

type fixture struct {
	sender    *crypto.KeyPair
	recipient *crypto.KeyPair
	nonce     domain.Nonce
	enc       *container.Encoder
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	sender, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	recipient, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	var nonce domain.Nonce
	copy(nonce[:], "0123456789abcdef")
	return fixture{
		sender:    sender,
		recipient: recipient,
		nonce:     nonce,
		enc:       &container.Encoder{Signer: sender, Wrapper: crypto.PlaceholderWrapper{}},
	}
}

func TestEncode_HelloLayout(t *testing.T) {
	f := newFixture(t)

	b, err := f.enc.Encode(f.nonce, f.recipient.PublicKey().Hex(), "hello")
	require.NoError(t, err)

	assert.Equal(t, uint32(174), binary.BigEndian.Uint32(b[0:4]))
	assert.Len(t, b, container.EncodedLen(5, 1))

	sender := f.sender.PublicKey()
	recipient := f.recipient.PublicKey()
	assert.Equal(t, f.nonce[:], b[4:20])
	assert.Equal(t, sender[:], b[20:84])
	assert.Equal(t, byte(1), b[84])
	assert.Equal(t, recipient[:], b[85:149])
	assert.Equal(t, []byte{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15, 16}, b[149:165])
	assert.Equal(t, uint32(5), binary.BigEndian.Uint32(b[165:169]))
	assert.Equal(t, []byte("hello"), b[169:174])

	var sig domain.Signature
	copy(sig[:], b[174:])
	assert.True(t, codec.Verify(sender, b[:174], sig))
}

func TestSize_Formula(t *testing.T) {
	for _, n := range []int{0, 1, 5, 200, 4096} {
		assert.Equal(t, uint32(n+169), container.Size(n, 1))
		assert.Equal(t, uint32(n+169+80), container.Size(n, 2))
		// The declared size trails the bytes after the size field by 60.
		assert.Equal(t, container.EncodedLen(n, 1)-4-60, int(container.Size(n, 1)))
	}
	assert.Equal(t, container.LayoutOverhead-60, container.DeclaredOverhead)
}

func TestDecode_RoundTrip(t *testing.T) {
	f := newFixture(t)
	texts := []string{"", "hello", "héllo wörld", strings.Repeat("x", 700)}
	for _, text := range texts {
		b, err := f.enc.Encode(f.nonce, f.recipient.PublicKey().Hex(), text)
		require.NoError(t, err)

		c, ok, err := container.Verify(b)
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, container.Size(len(text), 1), c.TotalSize)
		assert.Equal(t, len(b)-4, int(c.TotalSize)+container.LayoutOverhead-container.DeclaredOverhead)
		assert.Equal(t, f.nonce, c.Nonce)
		assert.Equal(t, f.sender.PublicKey(), c.Sender)
		require.Len(t, c.Recipients, 1)
		assert.Equal(t, f.recipient.PublicKey(), c.Recipients[0].PublicKey)
		assert.Equal(t, text, string(c.Data))
	}
}

func TestEncode_SameInputsDifferOnlyInSignature(t *testing.T) {
	f := newFixture(t)
	a, err := f.enc.Encode(f.nonce, f.recipient.PublicKey().Hex(), "same text")
	require.NoError(t, err)
	b, err := f.enc.Encode(f.nonce, f.recipient.PublicKey().Hex(), "same text")
	require.NoError(t, err)

	require.Equal(t, len(a), len(b))
	body := len(a) - domain.SignatureSize
	assert.Equal(t, a[:body], b[:body])

	ca, err := container.Decode(a)
	require.NoError(t, err)
	cb, err := container.Decode(b)
	require.NoError(t, err)
	assert.Equal(t, ca.TotalSize, cb.TotalSize)
	assert.Equal(t, ca.Nonce, cb.Nonce)
	assert.Equal(t, ca.Data, cb.Data)
}

func TestEncode_ECDHWrapperUnwraps(t *testing.T) {
	f := newFixture(t)
	material := bytes.Repeat([]byte{0x5A}, domain.WrappedKeySize)
	enc := &container.Encoder{
		Signer:   f.sender,
		Wrapper:  crypto.NewECDHWrapper(f.sender),
		Material: bytes.NewReader(material),
	}
	b, err := enc.Encode(f.nonce, f.recipient.PublicKey().Hex(), "secret-ish")
	require.NoError(t, err)

	c, err := container.Decode(b)
	require.NoError(t, err)
	got, err := crypto.NewECDHWrapper(f.recipient).Unwrap(c.Sender, c.Recipients[0].WrappedKey)
	require.NoError(t, err)
	assert.Equal(t, material, got)
}

func TestEncode_Rejects(t *testing.T) {
	f := newFixture(t)
	tests := []struct {
		name      string
		recipient string
		text      string
	}{
		{"not hex", strings.Repeat("zz", 64), "x"},
		{"short key", "abcdef", "x"},
		{"long key", strings.Repeat("ab", 65), "x"},
		{"invalid utf8", f.recipient.PublicKey().Hex(), "bad \xff byte"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.enc.Encode(f.nonce, tt.recipient, tt.text)
			require.ErrorIs(t, err, domain.ErrEncoding)
		})
	}
}

func TestEncode_NoSigner(t *testing.T) {
	enc := &container.Encoder{}
	_, err := enc.EncodeTo(domain.Nonce{}, domain.PublicKey{}, []byte("x"))
	require.ErrorIs(t, err, domain.ErrSigning)
}

func TestEncode_NilKeyPair(t *testing.T) {
	var kp *crypto.KeyPair
	enc := &container.Encoder{Signer: kp}
	b, err := enc.EncodeTo(domain.Nonce{}, domain.PublicKey{}, []byte("x"))
	require.ErrorIs(t, err, domain.ErrSigning)
	assert.Nil(t, b)
}

func TestDecode_MultiRecipient(t *testing.T) {
	var b []byte
	data := []byte("fan")
	b = binary.BigEndian.AppendUint32(b, container.Size(len(data), 2))
	b = append(b, make([]byte, domain.NonceSize+domain.PublicKeySize)...)
	b = append(b, 2)
	for i := 0; i < 2; i++ {
		b = append(b, bytes.Repeat([]byte{byte(i + 1)}, domain.PublicKeySize)...)
		b = append(b, make([]byte, domain.WrappedKeySize)...)
	}
	b = binary.BigEndian.AppendUint32(b, uint32(len(data)))
	b = append(b, data...)
	b = append(b, make([]byte, domain.SignatureSize)...)

	c, err := container.Decode(b)
	require.NoError(t, err)
	require.Len(t, c.Recipients, 2)
	assert.Equal(t, byte(2), c.Recipients[1].PublicKey[0])
	assert.Equal(t, data, c.Data)
	assert.Len(t, b, container.EncodedLen(len(data), 2))
}

func TestDecode_Malformed(t *testing.T) {
	f := newFixture(t)
	b, err := f.enc.Encode(f.nonce, f.recipient.PublicKey().Hex(), "hello")
	require.NoError(t, err)

	_, err = container.Decode(b[:100])
	require.ErrorIs(t, err, domain.ErrProtocolShape)

	_, err = container.Decode(b[:len(b)-1])
	require.ErrorIs(t, err, domain.ErrProtocolShape)

	tampered := append([]byte(nil), b...)
	tampered[170] ^= 0xFF
	_, ok, err := container.Verify(tampered)
	require.NoError(t, err)
	assert.False(t, ok)
}
