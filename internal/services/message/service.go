package message

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"courier/internal/crypto"
	"courier/internal/domain"
	"courier/internal/logging"
)

// ErrNoHistory is returned by History when the service has no store.
var ErrNoHistory = errors.New("history is not enabled")

// Service sends and receives payloads over a session.
//
// History is best effort: a delivery that reached the relay, or was handed
// back by it, is not reported as failed because the local record could not
// be written.
type Service struct {
	session domain.SessionService
	history domain.HistoryStore
	log     *zap.Logger
	now     func() time.Time
}

// New constructs a Message Service. history may be nil.
func New(session domain.SessionService, history domain.HistoryStore, log *zap.Logger) *Service {
	return &Service{
		session: session,
		history: history,
		log:     logging.OrNop(log).Named("message"),
		now:     time.Now,
	}
}

// SendMessage posts text to the recipient and records it as sent.
func (s *Service) SendMessage(ctx context.Context, recipientHex, text string) error {
	if err := s.session.Send(ctx, recipientHex, text); err != nil {
		return err
	}
	// Send has already validated the key.
	peer, err := crypto.ParsePublicKeyHex(recipientHex)
	if err != nil {
		return err
	}
	s.record(ctx, domain.HistoryEntry{
		Direction: domain.DirectionSent,
		Peer:      peer,
		Data:      []byte(text),
	})
	return nil
}

// FetchMessage returns the next queued delivery, or nil when there is none.
func (s *Service) FetchMessage(ctx context.Context) (*domain.Delivery, error) {
	d, err := s.session.Fetch(ctx)
	if err != nil || d == nil {
		return nil, err
	}
	s.record(ctx, domain.HistoryEntry{
		Direction: domain.DirectionReceived,
		Peer:      d.From,
		Data:      d.Data,
	})
	return d, nil
}

// History lists recorded messages, newest first. limit <= 0 lists all.
func (s *Service) History(ctx context.Context, limit int) ([]domain.HistoryEntry, error) {
	if s.history == nil {
		return nil, ErrNoHistory
	}
	return s.history.List(ctx, limit)
}

func (s *Service) record(ctx context.Context, e domain.HistoryEntry) {
	if s.history == nil {
		return
	}
	e.At = s.now().UTC()
	if _, err := s.history.Append(ctx, e); err != nil {
		s.log.Warn("could not record message",
			zap.String("direction", string(e.Direction)), zap.Error(err))
	}
}

// Compile-time assertion that Service implements domain.MessageService.
var _ domain.MessageService = (*Service)(nil)
