package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var a *app

	rootCmd := &cobra.Command{
		Use:   "boulevard",
		Short: "Browse, search and review local establishments",
		Long: `Boulevard is a command-line client for the Boulevard directory.

Browse and search establishments, like and follow them, leave
comments, read notifications and ask the assistant for suggestions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			var err error
			a, err = newApp(cmd.Context(), cmd.ErrOrStderr())
			return err
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a == nil {
				return nil
			}
			return a.Close(context.WithoutCancel(cmd.Context()))
		},
	}

	appRef := func() *app { return a }

	rootCmd.AddCommand(
		establishmentsCmd(appRef),
		showCmd(appRef),
		likeCmd(appRef),
		followCmd(appRef),
		searchCmd(appRef),
		commentCmd(appRef),
		notificationsCmd(appRef),
		chatCmd(appRef),
		nearbyCmd(appRef),
		createCmd(appRef),
		moderateCmd(appRef),
		verifyCmd(appRef),
		deleteImageCmd(appRef),
		loginCmd(appRef),
		logoutCmd(appRef),
		whoamiCmd(appRef),
		installPromptCmd(appRef),
		versionCmd(),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if a != nil {
			_ = a.Close(context.Background())
		}
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", describe(err))
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "boulevard %s (%s)\n", version, commit)
		},
	}
}
