package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zatekoja/boulevard/internal/application/views"
)

func chatCmd(appRef func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat [message]",
		Short: "Ask the assistant for suggestions",
		Long: `Ask the assistant for establishment suggestions.

Without an argument, reads one message per line from standard input
until EOF.

Examples:
  boulevard chat "somewhere quiet for breakfast"
  boulevard chat`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			scope := a.scope(cmd.Context())
			defer scope.Close()

			v := views.NewChatView(scope, a.deps)
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				_, err := v.Send(cmd.Context(), args[0])
				printLastReply(out, v)
				return err
			}

			in := bufio.NewScanner(cmd.InOrStdin())
			fmt.Fprint(out, "> ")
			for in.Scan() {
				// failures are already in the transcript
				_, _ = v.Send(cmd.Context(), in.Text())
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				printLastReply(out, v)
				fmt.Fprint(out, "> ")
			}
			fmt.Fprintln(out)
			return in.Err()
		},
	}
}

func printLastReply(w io.Writer, v *views.ChatView) {
	transcript := v.Transcript()
	if len(transcript) == 0 {
		return
	}
	last := transcript[len(transcript)-1]
	if last.Role == views.ChatUser {
		return
	}
	prefix := "assistant"
	if last.Role == views.ChatError {
		prefix = "error"
	}
	fmt.Fprintf(w, "%s: %s\n", prefix, strings.TrimSpace(last.Text))
	for _, e := range last.Establishments {
		fmt.Fprintf(w, "  - %s (%s)\n", e.Name, e.ID)
	}
}
