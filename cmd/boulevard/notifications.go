package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zatekoja/boulevard/internal/application/views"
)

func notificationsCmd(appRef func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"inbox"},
		Short:   "List your notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withNotifications(cmd, appRef, func(v *views.NotificationView) error {
				items := v.Items()
				if len(items) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No notifications.")
					return nil
				}
				tw := newTable(cmd.OutOrStdout())
				fmt.Fprintln(tw, "ID\t\tTYPE\tMESSAGE\tDATE")
				for _, item := range items {
					n := item.Notification
					unread := "•"
					if item.Read {
						unread = " "
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", n.ID, unread, n.Type.Label(), n.Message, n.CreatedAt.Format("2006-01-02 15:04"))
				}
				if err := tw.Flush(); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "\n%d unread\n", v.UnreadCount())
				return nil
			})
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "read <id>",
			Short: "Toggle the read mark of a notification",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withNotifications(cmd, appRef, func(v *views.NotificationView) error {
					read, err := v.ToggleRead(cmd.Context(), args[0])
					if err != nil {
						return err
					}
					if read {
						fmt.Fprintln(cmd.OutOrStdout(), "Marked as read")
					} else {
						fmt.Fprintln(cmd.OutOrStdout(), "Marked as unread")
					}
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "read-all",
			Short: "Mark every notification as read",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return withNotifications(cmd, appRef, func(v *views.NotificationView) error {
					return v.MarkAllRead(cmd.Context())
				})
			},
		},
		&cobra.Command{
			Use:   "delete <id>",
			Short: "Delete a notification",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withNotifications(cmd, appRef, func(v *views.NotificationView) error {
					return v.Delete(cmd.Context(), args[0])
				})
			},
		},
	)

	return cmd
}

func withNotifications(cmd *cobra.Command, appRef func() *app, fn func(*views.NotificationView) error) error {
	a := appRef()
	scope := a.scope(cmd.Context())
	defer scope.Close()

	v := views.NewNotificationView(scope, a.deps)
	if err := v.Load(cmd.Context()); err != nil {
		return err
	}
	return fn(v)
}
