package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zatekoja/boulevard/internal/application/views"
)

func searchCmd(appRef func() *app) *cobra.Command {
	var typed bool

	cmd := &cobra.Command{
		Use:   "search <text>",
		Short: "Search establishments by name",
		Long: `Search establishments by name.

With --typed the text is fed one keystroke at a time, the way the
interactive search box receives it; only the final query reaches the
backend.

Examples:
  boulevard search pizza
  boulevard search --typed "tacos al pastor"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			scope := a.scope(cmd.Context())
			defer scope.Close()

			text := []rune(args[0])
			final := string(text)
			settled := make(chan views.SearchState, 1)
			c := views.NewSearchController(scope, a.deps,
				views.WithDebounce(a.cfg.Search.Debounce),
				views.WithMinLength(a.cfg.Search.MinLength),
				views.OnSearchChange(func(s views.SearchState) {
					if s.Pending || s.Query != final {
						return
					}
					select {
					case settled <- s:
					default:
					}
				}),
			)
			defer c.Close()

			if typed {
				for i := 1; i < len(text); i++ {
					c.Input(string(text[:i]))
				}
			}
			c.Input(final)
			if !c.Pending() {
				fmt.Fprintf(cmd.OutOrStdout(), "Type at least %d characters to search.\n", a.cfg.Search.MinLength)
				return nil
			}

			var state views.SearchState
			select {
			case state = <-settled:
			case <-cmd.Context().Done():
				return cmd.Context().Err()
			}
			if state.Err != nil {
				return state.Err
			}
			if len(state.Results) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No establishments match %q.\n", state.Query)
				return nil
			}
			printEstablishments(cmd.OutOrStdout(), state.Results)
			return nil
		},
	}

	cmd.Flags().BoolVar(&typed, "typed", false, "Feed the text one keystroke at a time")

	return cmd
}
