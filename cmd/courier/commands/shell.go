package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"courier/internal/domain"
)

const prompt = "ENTER COMMAND: "

// shell: authenticate, then serve send/get/exit lines from stdin.
func shellCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive session: send <hex> <text> | get | exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()
			a, err := c.connect(ctx, out)
			if err != nil {
				return err
			}
			defer a.Close()
			return runShell(ctx, cmd.InOrStdin(), out, a.Messages, a.Session)
		},
	}
}

// runShell reads one command per line until exit, end of input, or a
// failed session. Errors from single operations are printed and the loop
// continues.
func runShell(ctx context.Context, in io.Reader, out io.Writer, msgs domain.MessageService, sess domain.SessionService) error {
	sc := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, prompt)
		if !sc.Scan() {
			fmt.Fprintln(out)
			return sc.Err()
		}
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			fmt.Fprintln(out, "UNKNOWN")
			continue
		}

		var err error
		switch fields[0] {
		case "send":
			fmt.Fprintln(out, "SEND DATA")
			if len(fields) < 3 {
				fmt.Fprintln(out, "usage: send <recipient-hex> <text>")
				continue
			}
			err = msgs.SendMessage(ctx, fields[1], strings.Join(fields[2:], " "))
		case "get":
			fmt.Fprintln(out, "GET DATA")
			var d *domain.Delivery
			if d, err = msgs.FetchMessage(ctx); err == nil {
				printDelivery(out, d)
			}
		case "exit":
			fmt.Fprintln(out, "EXIT")
			return nil
		default:
			fmt.Fprintln(out, "UNKNOWN")
			continue
		}

		if err != nil {
			fmt.Fprintf(out, "ERROR: %v\n", err)
			if sess.State() == domain.StateFailed || errors.Is(err, domain.ErrSessionFailed) {
				return err
			}
		}
	}
}
