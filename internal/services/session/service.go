package session

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"courier/internal/domain"
	"courier/internal/logging"
	"courier/internal/protocol/container"
	"courier/internal/protocol/frame"
	"courier/internal/protocol/reply"
)

// Options configure a Service.
type Options struct {
	// Wrapper fills the wrapped-key slot of outgoing containers.
	// Nil selects the fixed placeholder.
	Wrapper domain.KeyWrapper
	Logger  *zap.Logger
}

// Service is a relay session.
//
// The zero value is unusable; build one with New.
type Service struct {
	mu        sync.Mutex
	signer    domain.Signer
	transport domain.Transport
	encoder   *container.Encoder
	log       *zap.Logger

	state  domain.SessionState
	nonce  domain.Nonce
	closed bool // transport released
}

// New returns an unauthenticated session over transport.
func New(signer domain.Signer, transport domain.Transport, opts Options) *Service {
	return &Service{
		signer:    signer,
		transport: transport,
		encoder:   &container.Encoder{Signer: signer, Wrapper: opts.Wrapper},
		log:       logging.OrNop(opts.Logger).Named("session"),
		state:     domain.StateUnauthenticated,
	}
}

// Handshake authenticates the session.
//
// Steps:
//  1. Send a request-nonce frame and take the nonce from the reply.
//  2. Send an authenticate frame signed over that nonce and our public key.
//  3. Adopt the nonce from the authenticate reply.
//
// A context already done on entry fails only the call. Any later failure
// leaves the session failed. Calling Handshake on an authenticated session
// is a no-op.
func (s *Service) Handshake(ctx context.Context) error {
	const op = "handshake"
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case domain.StateAuthenticated:
		return nil
	case domain.StateUnauthenticated:
	default:
		return s.unusable(op)
	}
	if err := ctx.Err(); err != nil {
		return opError(op, err)
	}

	// Obtain the first nonce.
	b, err := s.exchange(ctx, frame.RequestNonce())
	if err != nil {
		return s.fail(op, err)
	}
	n, err := reply.Nonce(b)
	if err != nil {
		return s.fail(op, err)
	}
	s.nonce = n
	s.state = domain.StateAwaitingNonce

	// Prove possession of the key over that nonce.
	f, err := frame.Authenticate(s.signer, s.nonce)
	if err != nil {
		return s.fail(op, err)
	}
	b, err = s.exchange(ctx, f)
	if err != nil {
		return s.fail(op, err)
	}
	if n, err = reply.Nonce(b); err != nil {
		return s.fail(op, err)
	}
	s.nonce = n
	s.state = domain.StateAuthenticated
	s.log.Info("authenticated")
	return nil
}

// Send delivers text to the recipient named by a 128-character hex key.
//
// Encoding and signing failures happen before anything is written, so the
// session stays usable and the nonce is unchanged. A reply too short to
// carry a nonce is reported but does not fail the session.
func (s *Service) Send(ctx context.Context, recipientHex, text string) error {
	const op = "send"
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateAuthenticated {
		return s.unusable(op)
	}
	c, err := s.encoder.Encode(s.nonce, recipientHex, text)
	if err != nil {
		return opError(op, err)
	}
	b, err := s.exchange(ctx, frame.SendData(c))
	if err != nil {
		return s.failOnTransport(op, err)
	}
	n, err := reply.Nonce(b)
	if err != nil {
		return opError(op, err)
	}
	s.nonce = n
	return nil
}

// Fetch asks the relay for the next queued delivery. It returns nil, nil
// when nothing is queued or the reply is too short to hold a delivery.
//
// The nonce is adopted from any reply long enough to carry one, including
// a reply whose declared data length overruns it.
func (s *Service) Fetch(ctx context.Context) (*domain.Delivery, error) {
	const op = "fetch"
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != domain.StateAuthenticated {
		return nil, s.unusable(op)
	}
	f, err := frame.FetchData(s.signer, s.nonce)
	if err != nil {
		return nil, opError(op, err)
	}
	b, err := s.exchange(ctx, f)
	if err != nil {
		return nil, s.failOnTransport(op, err)
	}
	if n, err := reply.Nonce(b); err == nil {
		s.nonce = n
	} else {
		s.log.Debug("reply carries no nonce; keeping current", zap.Int("len", len(b)))
	}

	d, res, err := reply.Fetch(b)
	if err != nil {
		return nil, opError(op, err)
	}
	if res != reply.HasData {
		s.log.Debug("nothing to deliver", zap.Stringer("result", res), zap.Int("len", len(b)))
		return nil, nil
	}
	return d, nil
}

// State reports the session state.
func (s *Service) State() domain.SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Nonce reports the nonce the next signed frame will carry.
func (s *Service) Nonce() domain.Nonce {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nonce
}

// PublicKey is the key this session authenticates with.
func (s *Service) PublicKey() domain.PublicKey { return s.signer.PublicKey() }

// Close releases the transport once. A failed session stays failed.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.state != domain.StateFailed {
		s.state = domain.StateClosed
	}
	return s.transport.Close()
}

// exchange writes one frame and reads one reply.
func (s *Service) exchange(ctx context.Context, f []byte) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := s.log.With(
		zap.String("request_id", uuid.NewString()),
		zap.Stringer("op", frame.Opcode(f)),
	)
	log.Debug("SEND", zap.Int("len", len(f)), zap.String("hex", hex.EncodeToString(f)))
	if err := s.transport.Send(ctx, f); err != nil {
		return nil, err
	}
	b, err := s.transport.Receive(ctx)
	if err != nil {
		return nil, err
	}
	log.Debug("RECEIVE", zap.Int("len", len(b)), zap.String("hex", hex.EncodeToString(b)))
	return b, nil
}

func (s *Service) fail(op string, err error) error {
	s.state = domain.StateFailed
	s.log.Warn("session failed", zap.String("op", op), zap.Error(err))
	return opError(op, err)
}

// failOnTransport fails the session only when the transport is gone.
func (s *Service) failOnTransport(op string, err error) error {
	if errors.Is(err, domain.ErrTransport) {
		return s.fail(op, err)
	}
	return opError(op, err)
}

func (s *Service) unusable(op string) error {
	switch s.state {
	case domain.StateFailed:
		return &domain.OpError{Op: op, Kind: domain.ErrSessionFailed}
	case domain.StateClosed:
		return &domain.OpError{Op: op, Kind: domain.ErrSessionClosed}
	default:
		return domain.NewOpError(op, domain.ErrNotReady, nil, "state %s", s.state)
	}
}

// kinds are checked in order; the first match classifies the error.
var kinds = []error{
	domain.ErrTimeout,
	domain.ErrTransport,
	domain.ErrSigning,
	domain.ErrEncoding,
	domain.ErrProtocolShape,
}

func opError(op string, err error) error {
	var oe *domain.OpError
	if errors.As(err, &oe) {
		return err
	}
	for _, k := range kinds {
		if errors.Is(err, k) {
			return &domain.OpError{Op: op, Kind: k, Err: err}
		}
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return &domain.OpError{Op: op, Kind: domain.ErrTransport, Err: err}
}

// Compile-time assertion that Service implements domain.SessionService.
var _ domain.SessionService = (*Service)(nil)
