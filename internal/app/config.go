package app

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"courier/internal/logging"
	"courier/internal/relay"
)

// Wrap modes for the wrapped-key slot of outgoing containers.
const (
	WrapPlaceholder = "placeholder"
	WrapECDH        = "ecdh"
)

const (
	DefaultAddr = "127.0.0.1:80"
	homeDirName = ".courier"
)

// Config holds runtime wiring options for building the app.
//
// Secrets are never read from the config file.
type Config struct {
	Home      string         `yaml:"home"`       // state directory, e.g. $HOME/.courier
	Addr      string         `yaml:"addr"`       // relay host:port
	Timeout   time.Duration  `yaml:"timeout"`    // per send and per receive
	MaxReply  int            `yaml:"max_reply"`  // receive buffer size
	Wrap      string         `yaml:"wrap"`       // placeholder or ecdh
	NoHistory bool           `yaml:"no_history"` // skip the local sqlite record
	Log       logging.Config `yaml:"log"`

	Key        string `yaml:"-"` // hex private key, overrides the stored identity
	Passphrase string `yaml:"-"` // unlocks the stored identity
	Ephemeral  bool   `yaml:"-"` // ignore the stored identity
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Addr:     DefaultAddr,
		Timeout:  relay.DefaultTimeout,
		MaxReply: relay.DefaultMaxReply,
		Wrap:     WrapPlaceholder,
	}
}

// LoadFile overlays the YAML file at path onto cfg. Fields absent from the
// file keep their current values.
func LoadFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ResolveHome fills in Home with ~/.courier when unset.
func (c *Config) ResolveHome() error {
	if c.Home != "" {
		return nil
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		return err
	}
	c.Home = filepath.Join(dir, homeDirName)
	return nil
}

// Validate rejects values the wiring cannot use.
func (c Config) Validate() error {
	var errs []error
	if _, port, err := net.SplitHostPort(c.Addr); err != nil || port == "" {
		errs = append(errs, fmt.Errorf("addr %q: want host:port", c.Addr))
	}
	if c.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout))
	}
	if c.MaxReply < 1 {
		errs = append(errs, fmt.Errorf("max_reply must be positive, got %d", c.MaxReply))
	}
	switch strings.ToLower(c.Wrap) {
	case WrapPlaceholder, WrapECDH:
	default:
		errs = append(errs, fmt.Errorf("wrap %q: want %s or %s", c.Wrap, WrapPlaceholder, WrapECDH))
	}
	if c.Key != "" && c.Ephemeral {
		errs = append(errs, errors.New("--key and --ephemeral are mutually exclusive"))
	}
	return errors.Join(errs...)
}
