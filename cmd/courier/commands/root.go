package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"courier/internal/app"
	"courier/internal/crypto"
)

// cli holds flag values and the wiring shared by subcommands.
type cli struct {
	configPath  string
	cfg         app.Config
	showPrivate bool

	wire *app.Wire
}

// Execute runs the courier CLI against os.Args.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	c := &cli{cfg: app.DefaultConfig()}

	root := &cobra.Command{
		Use:          "courier",
		Short:        "Signed payload client for a store-and-forward relay",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if c.wire == nil {
				return nil
			}
			return c.wire.Close()
		},
	}

	f := root.PersistentFlags()
	f.StringVar(&c.configPath, "config", "", "YAML config file")
	f.StringVar(&c.cfg.Home, "home", "", "state dir (default ~/.courier)")
	f.StringVar(&c.cfg.Addr, "addr", c.cfg.Addr, "relay host:port")
	f.DurationVar(&c.cfg.Timeout, "timeout", c.cfg.Timeout, "per send and per receive timeout")
	f.IntVar(&c.cfg.MaxReply, "max-reply", c.cfg.MaxReply, "largest reply read in one go")
	f.StringVar(&c.cfg.Key, "key", "", "hex private key (overrides the stored identity)")
	f.StringVarP(&c.cfg.Passphrase, "passphrase", "p", "", "passphrase protecting the stored identity")
	f.BoolVar(&c.cfg.Ephemeral, "ephemeral", false, "ignore the stored identity and use a fresh key")
	f.StringVar(&c.cfg.Wrap, "wrap", c.cfg.Wrap, "wrapped-key mode: placeholder or ecdh")
	f.BoolVar(&c.cfg.NoHistory, "no-history", false, "do not record messages locally")
	f.StringVar(&c.cfg.Log.Level, "log-level", "", "debug, info, warn or error (default warn)")
	f.StringVar(&c.cfg.Log.File, "log-file", "", "also write JSON logs to this file")
	f.BoolVar(&c.showPrivate, "show-private", false, "print the private key in the banner")

	root.AddCommand(
		keysCmd(c),
		sendCmd(c),
		getCmd(c),
		shellCmd(c),
		inboxCmd(c),
		inspectCmd(c),
	)
	return root
}

// setup loads the config file, then re-applies flags the user set so they
// win over file values.
func (c *cli) setup(cmd *cobra.Command) error {
	if c.configPath != "" {
		flags := c.cfg
		cfg := app.DefaultConfig()
		if err := app.LoadFile(c.configPath, &cfg); err != nil {
			return err
		}
		fs := cmd.Flags()
		overlay := map[string]func(){
			"home":       func() { cfg.Home = flags.Home },
			"addr":       func() { cfg.Addr = flags.Addr },
			"timeout":    func() { cfg.Timeout = flags.Timeout },
			"max-reply":  func() { cfg.MaxReply = flags.MaxReply },
			"wrap":       func() { cfg.Wrap = flags.Wrap },
			"no-history": func() { cfg.NoHistory = flags.NoHistory },
			"log-level":  func() { cfg.Log.Level = flags.Log.Level },
			"log-file":   func() { cfg.Log.File = flags.Log.File },
		}
		for name, apply := range overlay {
			if fs.Changed(name) {
				apply()
			}
		}
		cfg.Key, cfg.Passphrase, cfg.Ephemeral = flags.Key, flags.Passphrase, flags.Ephemeral
		c.cfg = cfg
	}

	w, err := app.NewWire(c.cfg)
	if err != nil {
		return err
	}
	c.wire = w
	return nil
}

// connect picks the signing key, prints the banner, and authenticates.
func (c *cli) connect(ctx context.Context, out io.Writer) (*app.App, error) {
	kp, src, err := c.wire.SigningKey()
	if err != nil {
		return nil, err
	}
	printBanner(out, kp, src, c.showPrivate)
	return c.wire.Connect(ctx, kp)
}

// opContext bounds a whole one-shot command: handshake plus one exchange.
func (c *cli) opContext(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, 3*c.wire.Config.Timeout+time.Second)
}

const rule = "########################################"

func printBanner(out io.Writer, kp *crypto.KeyPair, source string, showPrivate bool) {
	fmt.Fprintln(out, rule)
	if showPrivate {
		fmt.Fprintln(out, "PRIV")
		fmt.Fprintln(out, kp.PrivateHex())
	}
	fmt.Fprintln(out, "PUB")
	fmt.Fprintln(out, kp.PublicKey().Hex())
	fmt.Fprintf(out, "FINGERPRINT %s (%s key)\n", crypto.Fingerprint(kp.PublicKey()), source)
	fmt.Fprintln(out, rule)
	fmt.Fprintln(out)
}
