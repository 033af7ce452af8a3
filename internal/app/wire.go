package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"courier/internal/crypto"
	"courier/internal/domain"
	"courier/internal/logging"
	"courier/internal/relay"
	identitysvc "courier/internal/services/identity"
	messagesvc "courier/internal/services/message"
	sessionsvc "courier/internal/services/session"
	"courier/internal/store"
)

// Key sources, in order of precedence.
const (
	KeyFromFlag  = "flag"
	KeyFromStore = "stored"
	KeyEphemeral = "ephemeral"
)

// ErrLocked is returned when a stored identity exists but no passphrase was given.
var ErrLocked = errors.New("stored identity is locked; pass --passphrase, --key or --ephemeral")

// Wire bundles the logger, stores and identity service for the CLI.
type Wire struct {
	Config   Config
	Log      *zap.Logger
	Identity *identitysvc.Service
	History  domain.HistoryStore // nil when disabled

	closeLog func() error
	closed   bool
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config) (*Wire, error) {
	if err := cfg.ResolveHome(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, closeLog, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}

	// File-based identity; sqlite history next to it.
	w := &Wire{
		Config:   cfg,
		Log:      log,
		closeLog: closeLog,
		Identity: identitysvc.New(store.NewIdentityFileStore(cfg.Home)),
	}
	if !cfg.NoHistory {
		if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
			_ = closeLog()
			return nil, err
		}
		h, err := store.OpenHistory(cfg.Home)
		if err != nil {
			_ = closeLog()
			return nil, err
		}
		w.History = h
	}
	return w, nil
}

// SigningKey picks the key for this run: --key, then the stored identity,
// then a fresh ephemeral key. It also reports which source was used.
func (w *Wire) SigningKey() (*crypto.KeyPair, string, error) {
	if w.Config.Key != "" {
		kp, err := crypto.KeyPairFromHex(strings.TrimSpace(w.Config.Key))
		if err != nil {
			return nil, "", fmt.Errorf("--key: %w", err)
		}
		return kp, KeyFromFlag, nil
	}
	if !w.Config.Ephemeral {
		ok, err := w.Identity.Exists()
		if err != nil {
			return nil, "", err
		}
		if ok {
			if w.Config.Passphrase == "" {
				return nil, "", ErrLocked
			}
			kp, err := w.Identity.KeyPair(w.Config.Passphrase)
			if err != nil {
				return nil, "", err
			}
			return kp, KeyFromStore, nil
		}
	}
	kp, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, "", err
	}
	w.Log.Info("using ephemeral key", zap.Stringer("fingerprint", crypto.Fingerprint(kp.PublicKey())))
	return kp, KeyEphemeral, nil
}

// Connect dials the relay, authenticates a session signed by kp, and
// returns the services bound to it.
func (w *Wire) Connect(ctx context.Context, kp *crypto.KeyPair) (*App, error) {
	tr, err := relay.Dial(ctx, w.Config.Addr, relay.Options{
		Timeout:  w.Config.Timeout,
		MaxReply: w.Config.MaxReply,
		Logger:   w.Log,
	})
	if err != nil {
		return nil, err
	}

	var wrapper domain.KeyWrapper = crypto.PlaceholderWrapper{}
	if strings.EqualFold(w.Config.Wrap, WrapECDH) {
		wrapper = crypto.NewECDHWrapper(kp)
	}
	sess := sessionsvc.New(kp, tr, sessionsvc.Options{Wrapper: wrapper, Logger: w.Log})
	if err := sess.Handshake(ctx); err != nil {
		_ = sess.Close()
		return nil, err
	}
	return New(kp, sess, messagesvc.New(sess, w.History, w.Log)), nil
}

// Close releases the history database, flushes the logger and closes the
// log file. Later calls are no-ops.
func (w *Wire) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	var errs []error
	if w.History != nil {
		errs = append(errs, w.History.Close())
	}
	errs = append(errs, w.closeLog())
	return errors.Join(errs...)
}
