package relay

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"go.uber.org/zap"

	"courier/internal/domain"
	"courier/internal/logging"
)

const (
	// DefaultMaxReply matches the relay's largest single reply write.
	DefaultMaxReply = 1024
	DefaultTimeout  = 10 * time.Second
)

var errEmptyRead = errors.New("empty read")

// Options tune a TCPClient.
type Options struct {
	Timeout  time.Duration // per send and per receive; zero means DefaultTimeout
	MaxReply int           // receive buffer; zero means DefaultMaxReply
	Logger   *zap.Logger
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.MaxReply <= 0 {
		o.MaxReply = DefaultMaxReply
	}
	o.Logger = logging.OrNop(o.Logger)
	return o
}

// TCPClient is the relay connection. It is not safe for concurrent use;
// the session serializes access.
type TCPClient struct {
	conn net.Conn
	opts Options
}

// Dial connects to the relay at addr.
func Dial(ctx context.Context, addr string, opts Options) (*TCPClient, error) {
	opts = opts.withDefaults()
	d := net.Dialer{Timeout: opts.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %w", domain.ErrTransport, addr, err)
	}
	opts.Logger.Info("connected to relay", zap.String("addr", addr))
	return New(conn, opts), nil
}

// New wraps an established connection.
func New(conn net.Conn, opts Options) *TCPClient {
	return &TCPClient{conn: conn, opts: opts.withDefaults()}
}

// Send writes frame in full. A cancelled ctx stops it before any byte is written.
func (c *TCPClient) Send(ctx context.Context, frame []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := c.conn.SetWriteDeadline(c.deadline(ctx)); err != nil {
		return fmt.Errorf("%w: set write deadline: %w", domain.ErrTransport, err)
	}
	if _, err := c.conn.Write(frame); err != nil {
		return wrapNetErr("write", err)
	}
	return nil
}

// Receive performs one read of at most MaxReply bytes.
func (c *TCPClient) Receive(ctx context.Context) ([]byte, error) {
	if err := c.conn.SetReadDeadline(c.deadline(ctx)); err != nil {
		return nil, fmt.Errorf("%w: set read deadline: %w", domain.ErrTransport, err)
	}
	buf := make([]byte, c.opts.MaxReply)
	n, err := c.conn.Read(buf)
	if n > 0 {
		return buf[:n], nil
	}
	if err == nil {
		err = errEmptyRead
	}
	return nil, wrapNetErr("read", err)
}

// Close closes the connection.
func (c *TCPClient) Close() error { return c.conn.Close() }

// RemoteAddr reports the relay address.
func (c *TCPClient) RemoteAddr() string { return c.conn.RemoteAddr().String() }

func (c *TCPClient) deadline(ctx context.Context) time.Time {
	d := time.Now().Add(c.opts.Timeout)
	if cd, ok := ctx.Deadline(); ok && cd.Before(d) {
		return cd
	}
	return d
}

func wrapNetErr(op string, err error) error {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return fmt.Errorf("%w: %w: %s: %w", domain.ErrTransport, domain.ErrTimeout, op, err)
	}
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: %s: connection closed by relay", domain.ErrTransport, op)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrTransport, op, err)
}

// Compile-time assertion that TCPClient implements domain.Transport.
var _ domain.Transport = (*TCPClient)(nil)
