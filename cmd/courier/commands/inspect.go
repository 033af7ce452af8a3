package commands

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"courier/internal/domain"
	"courier/internal/protocol/container"
)

var errBadSignature = errors.New("signature does not verify against the sender key")

// inspect <hex>: decode a container, with or without its 0x06 opcode.
func inspectCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <container-hex>",
		Short: "Decode a container and verify its signature",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := hex.DecodeString(strings.TrimSpace(args[0]))
			if err != nil {
				return fmt.Errorf("%w: %w", domain.ErrEncoding, err)
			}
			// A bare container starts with a big-endian size whose top
			// byte is never 0x06 in practice.
			if len(b) > 0 && b[0] == byte(domain.OpSendData) {
				b = b[1:]
			}
			ct, ok, err := container.Verify(b)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "total_size  %d\n", ct.TotalSize)
			fmt.Fprintf(out, "nonce       %x\n", ct.Nonce[:])
			fmt.Fprintf(out, "sender      %s\n", ct.Sender.Hex())
			for i, r := range ct.Recipients {
				fmt.Fprintf(out, "recipient%d  %s\n", i, r.PublicKey.Hex())
				fmt.Fprintf(out, "wrapped%d    %x\n", i, r.WrappedKey[:])
			}
			fmt.Fprintf(out, "data        %q\n", ct.Data)
			fmt.Fprintf(out, "signature   %x\n", ct.Signature[:])
			if !ok {
				fmt.Fprintln(out, "verify      FAIL")
				return errBadSignature
			}
			fmt.Fprintln(out, "verify      OK")
			return nil
		},
	}
}
