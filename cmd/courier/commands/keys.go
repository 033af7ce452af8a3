package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNeedPassphrase = errors.New("passphrase required (-p)")

func keysCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the stored signing key",
	}
	cmd.AddCommand(keysNewCmd(c), keysImportCmd(c), keysShowCmd(c))
	return cmd
}

func keysNewCmd(c *cli) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Generate a signing key and store it encrypted",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkWritable(force); err != nil {
				return err
			}
			pub, fp, err := c.wire.Identity.GenerateIdentity(c.cfg.Passphrase)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Identity created.\nPUB %s\nFingerprint: %s\n", pub.Hex(), fp)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing identity")
	return cmd
}

func keysImportCmd(c *cli) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "import <private-hex>",
		Short: "Store an existing 64-character hex private key",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := c.checkWritable(force); err != nil {
				return err
			}
			pub, fp, err := c.wire.Identity.ImportIdentity(c.cfg.Passphrase, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Identity imported.\nPUB %s\nFingerprint: %s\n", pub.Hex(), fp)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace an existing identity")
	return cmd
}

func keysShowCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the stored public key and fingerprint",
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.cfg.Passphrase == "" {
				return errNeedPassphrase
			}
			pub, fp, err := c.wire.Identity.FingerprintIdentity(c.cfg.Passphrase)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "PUB %s\nFingerprint: %s\n", pub.Hex(), fp)
			return nil
		},
	}
}

func (c *cli) checkWritable(force bool) error {
	if c.cfg.Passphrase == "" {
		return errNeedPassphrase
	}
	exists, err := c.wire.Identity.Exists()
	if err != nil {
		return err
	}
	if exists && !force {
		return fmt.Errorf("an identity already exists in %s; use --force to replace it", c.wire.Config.Home)
	}
	return nil
}
