package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"courier/internal/domain"
)

// get: authenticate, fetch one queued delivery, exit.
func getCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "get",
		Short: "Fetch the next queued payload",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := c.opContext(cmd.Context())
			defer cancel()

			out := cmd.OutOrStdout()
			a, err := c.connect(ctx, out)
			if err != nil {
				return err
			}
			defer a.Close()

			d, err := a.Messages.FetchMessage(ctx)
			if err != nil {
				return err
			}
			printDelivery(out, d)
			return nil
		},
	}
}

func printDelivery(out io.Writer, d *domain.Delivery) {
	if d == nil {
		fmt.Fprintln(out, "NO DATA")
		return
	}
	fmt.Fprintln(out, "RECEIVED FROM")
	fmt.Fprintln(out, d.From.Hex())
	fmt.Fprintln(out, "DATA")
	fmt.Fprintf(out, "%q\n", d.Data)
}
