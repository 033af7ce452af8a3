package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"courier/internal/crypto"
	"courier/internal/domain"
	messagesvc "courier/internal/services/message"
)

// inbox: list locally recorded messages, newest first.
func inboxCmd(c *cli) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "List locally recorded messages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.wire.History == nil {
				return messagesvc.ErrNoHistory
			}
			entries, err := c.wire.History.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "no messages")
				return nil
			}
			for _, e := range entries {
				arrow := "<-"
				if e.Direction == domain.DirectionSent {
					arrow = "->"
				}
				fmt.Fprintf(out, "%s %s %s %q\n",
					e.At.Local().Format(time.DateTime), arrow, crypto.Fingerprint(e.Peer), e.Data)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "show at most N messages (0 for all)")
	return cmd
}
