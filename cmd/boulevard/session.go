package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/zatekoja/boulevard/internal/domain/entities"
)

func loginCmd(appRef func() *app) *cobra.Command {
	var (
		token string
		user  entities.User
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a bearer token and the user it belongs to",
		Long: `Store the bearer token issued by the backend together with the user
it belongs to.

With the default in-memory store the session only lasts for this
process; set SESSION_STORE=redis to keep it between runs, or pass
BOULEVARD_TOKEN and BOULEVARD_USER on every invocation.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			if err := a.session.Login(cmd.Context(), token, user); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", displayName(user))
			return nil
		},
	}

	cmd.Flags().StringVar(&token, "token", "", "Bearer token")
	cmd.Flags().StringVar(&user.ID, "id", "", "User id")
	cmd.Flags().StringVar(&user.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&user.Email, "email", "", "Email")
	cmd.Flags().StringVar(&user.RawRole, "role", "", "Role as reported by the backend")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("id")

	return cmd
}

func logoutCmd(appRef func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := appRef().session.Logout(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func whoamiCmd(appRef func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := appRef().session.Current(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", displayName(s.User), s.User.Role())
			return nil
		},
	}
}

func installPromptCmd(appRef func() *app) *cobra.Command {
	var dismiss, installed bool

	cmd := &cobra.Command{
		Use:   "install-prompt",
		Short: "Check or record the install suggestion state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := appRef().prompt
			now := time.Now()
			switch {
			case installed:
				return p.MarkInstalled(cmd.Context())
			case dismiss:
				return p.Dismiss(cmd.Context(), now)
			}
			if p.ShouldPrompt(cmd.Context(), now) {
				fmt.Fprintln(cmd.OutOrStdout(), "Install Boulevard for quicker access.")
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dismiss, "dismiss", false, "Hide the suggestion for a week")
	cmd.Flags().BoolVar(&installed, "installed", false, "Record that the app is installed")
	cmd.MarkFlagsMutuallyExclusive("dismiss", "installed")

	return cmd
}

func displayName(u entities.User) string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.ID
}
