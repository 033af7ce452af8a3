// Package relaytest runs an in-memory relay for tests.
//
// It speaks the server half of the protocol closely enough to exercise a
// client end to end: it issues a fresh nonce on every reply, checks the
// nonce and signature of each signed frame, and queues containers for their
// recipients until fetched. State lives in memory and dies with the test.
package relaytest

import (
	"crypto/rand"
	"encoding/binary"
	"errors"
	"net"
	"sync"
	"testing"

	"courier/internal/domain"
	"courier/internal/protocol/codec"
	"courier/internal/protocol/container"
	"courier/internal/protocol/reply"
)

// Reply header bytes. The client does not interpret them.
const (
	statusOK       byte = 0x00
	statusRejected byte = 0x01
)

type queued struct {
	from domain.PublicKey
	slot domain.Recipient
	data []byte
}

// Server is an in-memory relay listening on loopback.
type Server struct {
	ln net.Listener

	mu       sync.Mutex
	queues   map[domain.PublicKey][]queued
	rejected int
	accepted []domain.Container

	closeAfter   int
	shortReplies bool
}

// Option adjusts a Server before it starts serving.
type Option func(*Server)

// WithCloseAfter drops each connection once it has answered n frames.
func WithCloseAfter(n int) Option { return func(s *Server) { s.closeAfter = n } }

// WithShortReplies truncates every reply to 17 bytes, one short of a nonce.
func WithShortReplies() Option { return func(s *Server) { s.shortReplies = true } }

// Start listens on 127.0.0.1 and serves until the test ends.
func Start(t testing.TB, opts ...Option) *Server {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("relaytest: listen: %v", err)
	}
	s := &Server{ln: ln, queues: make(map[domain.PublicKey][]queued)}
	for _, o := range opts {
		o(s)
	}
	go s.accept()
	t.Cleanup(func() { _ = ln.Close() })
	return s
}

// Addr is the host:port to dial.
func (s *Server) Addr() string { return s.ln.Addr().String() }

// Rejected counts frames that failed nonce or signature checks.
func (s *Server) Rejected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rejected
}

// Accepted returns the containers the relay has queued so far.
func (s *Server) Accepted() []domain.Container {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Container(nil), s.accepted...)
}

// Enqueue places data from sender in recipient's queue directly.
func (s *Server) Enqueue(from, to domain.PublicKey, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queues[to] = append(s.queues[to], queued{from: from, slot: domain.Recipient{PublicKey: to}, data: data})
}

func (s *Server) accept() {
	for {
		conn, err := s.ln.Accept()
		if err != nil {
			return
		}
		go s.Serve(conn)
	}
}

// Serve handles one client connection until it closes.
func (s *Server) Serve(conn net.Conn) {
	defer conn.Close()
	var (
		nonce  domain.Nonce
		authed *domain.PublicKey
		frames int
	)
	buf := make([]byte, 64*1024)
	for {
		n, err := conn.Read(buf)
		if err != nil || n == 0 {
			return
		}
		frames++
		if s.closeAfter > 0 && frames > s.closeAfter {
			return
		}
		req := buf[:n]

		status := statusOK
		var body []byte
		switch domain.Opcode(req[0]) {
		case domain.OpRequestNonce:
			body = make([]byte, 2)
		case domain.OpAuthenticate:
			pub, ok := s.checkAuth(req, nonce)
			if ok {
				authed = &pub
			} else {
				status = statusRejected
			}
		case domain.OpFetchData:
			if authed == nil || !s.checkSigned(req, frameFetchBody, *authed, nonce) {
				status = statusRejected
				break
			}
			body = s.pop(*authed)
		case domain.OpSendData:
			if authed == nil || !s.accept06(req[1:], *authed, nonce) {
				status = statusRejected
			}
		default:
			status = statusRejected
		}

		nonce = newNonce()
		out := make([]byte, reply.NonceEnd, reply.NonceEnd+len(body))
		out[1] = status
		copy(out[reply.NonceStart:], nonce[:])
		out = append(out, body...)
		if s.shortReplies {
			out = out[:reply.NonceEnd-1]
		}
		if _, err := conn.Write(out); err != nil {
			return
		}
	}
}

const (
	frameAuthBody  = 1 + domain.NonceSize + domain.PublicKeySize
	frameFetchBody = 1 + domain.NonceSize
)

func (s *Server) checkAuth(req []byte, nonce domain.Nonce) (domain.PublicKey, bool) {
	var pub domain.PublicKey
	if len(req) != frameAuthBody+domain.SignatureSize {
		s.reject()
		return pub, false
	}
	copy(pub[:], req[1+domain.NonceSize:frameAuthBody])
	return pub, s.checkSigned(req, frameAuthBody, pub, nonce)
}

func (s *Server) checkSigned(req []byte, bodyLen int, pub domain.PublicKey, nonce domain.Nonce) bool {
	if len(req) != bodyLen+domain.SignatureSize || string(req[1:1+domain.NonceSize]) != string(nonce[:]) {
		s.reject()
		return false
	}
	var sig domain.Signature
	copy(sig[:], req[bodyLen:])
	if !codec.Verify(pub, req[:bodyLen], sig) {
		s.reject()
		return false
	}
	return true
}

func (s *Server) accept06(b []byte, authed domain.PublicKey, nonce domain.Nonce) bool {
	c, ok, err := container.Verify(b)
	if err != nil || !ok || c.Sender != authed || c.Nonce != nonce || len(c.Recipients) == 0 {
		s.reject()
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accepted = append(s.accepted, c)
	for _, r := range c.Recipients {
		s.queues[r.PublicKey] = append(s.queues[r.PublicKey], queued{from: c.Sender, slot: r, data: c.Data})
	}
	return true
}

// pop builds the delivery section of a fetch reply, or nil when empty.
func (s *Server) pop(to domain.PublicKey) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := s.queues[to]
	if len(q) == 0 {
		return nil
	}
	m := q[0]
	s.queues[to] = q[1:]

	body := make([]byte, reply.DataStart-reply.NonceEnd, reply.DataStart-reply.NonceEnd+len(m.data))
	at := func(off int) []byte { return body[off-reply.NonceEnd:] }
	copy(at(reply.SenderStart), m.from[:])
	at(reply.SenderEnd)[0] = 1
	copy(at(reply.SenderEnd+1), m.slot.PublicKey[:])
	copy(at(reply.SenderEnd+1+domain.PublicKeySize), m.slot.WrappedKey[:])
	binary.BigEndian.PutUint32(at(reply.DataLenStart), uint32(len(m.data)))
	return append(body, m.data...)
}

func (s *Server) reject() {
	s.mu.Lock()
	s.rejected++
	s.mu.Unlock()
}

func newNonce() domain.Nonce {
	var n domain.Nonce
	if _, err := rand.Read(n[:]); err != nil {
		panic(errors.New("relaytest: no randomness"))
	}
	return n
}
