package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// send <recipient-hex> <text...>: authenticate, post one payload, exit.
func sendCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "send <recipient-hex> <text>",
		Short: "Send one payload to a recipient's public key",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.opContext(cmd.Context())
			defer cancel()

			out := cmd.OutOrStdout()
			a, err := c.connect(ctx, out)
			if err != nil {
				return err
			}
			defer a.Close()

			if err := a.Messages.SendMessage(ctx, args[0], strings.Join(args[1:], " ")); err != nil {
				return err
			}
			fmt.Fprintln(out, "sent")
			return nil
		},
	}
}
