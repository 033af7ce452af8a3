package message_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"courier/internal/crypto"
	"courier/internal/domain"
	"courier/internal/services/message"
	"courier/internal/store"
)

// fakeSession records sends and hands out queued deliveries.
type fakeSession struct {
	sent    []string
	queue   []*domain.Delivery
	sendErr error
}

func (f *fakeSession) Handshake(context.Context) error { return nil }

func (f *fakeSession) Send(_ context.Context, recipientHex, text string) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, recipientHex+":"+text)
	return nil
}

func (f *fakeSession) Fetch(context.Context) (*domain.Delivery, error) {
	if len(f.queue) == 0 {
		return nil, nil
	}
	d := f.queue[0]
	f.queue = f.queue[1:]
	return d, nil
}

func (f *fakeSession) State() domain.SessionState { return domain.StateAuthenticated }
func (f *fakeSession) Close() error               { return nil }

func openHistory(t *testing.T) *store.HistorySQLStore {
	t.Helper()
	h, err := store.OpenHistoryPath(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })
	return h
}

func TestSendAndFetchAreRecorded(t *testing.T) {
	ctx := context.Background()
	peer, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	sess := &fakeSession{queue: []*domain.Delivery{{From: peer.PublicKey(), Data: []byte("pong")}}}
	svc := message.New(sess, openHistory(t), nil)

	require.NoError(t, svc.SendMessage(ctx, peer.PublicKey().Hex(), "ping"))
	assert.Equal(t, []string{peer.PublicKey().Hex() + ":ping"}, sess.sent)

	d, err := svc.FetchMessage(ctx)
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, []byte("pong"), d.Data)

	d, err = svc.FetchMessage(ctx)
	require.NoError(t, err)
	assert.Nil(t, d)

	got, err := svc.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.DirectionReceived, got[0].Direction)
	assert.Equal(t, []byte("pong"), got[0].Data)
	assert.Equal(t, domain.DirectionSent, got[1].Direction)
	assert.Equal(t, peer.PublicKey(), got[1].Peer)

	got, err = svc.History(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestFailedSendIsNotRecorded(t *testing.T) {
	ctx := context.Background()
	sess := &fakeSession{sendErr: domain.ErrEncoding}
	svc := message.New(sess, openHistory(t), nil)

	err := svc.SendMessage(ctx, "zz", "x")
	require.True(t, errors.Is(err, domain.ErrEncoding))

	got, err := svc.History(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestWithoutHistory(t *testing.T) {
	peer, err := crypto.GenerateKeyPair()
	require.NoError(t, err)
	svc := message.New(&fakeSession{}, nil, nil)

	require.NoError(t, svc.SendMessage(context.Background(), peer.PublicKey().Hex(), "x"))
	_, err = svc.History(context.Background(), 0)
	assert.ErrorIs(t, err, message.ErrNoHistory)
}
