package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/zatekoja/boulevard/internal/application/views"
)

func commentCmd(appRef func() *app) *cobra.Command {
	var (
		rating int
		body   string
	)

	cmd := &cobra.Command{
		Use:   "comment <establishment-id>",
		Short: "Leave a rated comment on an establishment",
		Long: `Leave a rated comment on an establishment.

Examples:
  boulevard comment 64f0c2 --rating 5 --body "Best tacos in town"
  boulevard comment edit 64f0c2 65a1b3 --rating 4 --body "Still good"
  boulevard comment delete 64f0c2 65a1b3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDetail(cmd, appRef, args[0], func(v *views.EstablishmentDetailView) error {
				if _, err := v.AddComment(cmd.Context(), rating, body); err != nil {
					return err
				}
				d := v.Detail()
				fmt.Fprintf(cmd.OutOrStdout(), "Rating is now %.1f over %d comments\n", d.AverageRating, d.CommentCount)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&rating, "rating", "r", 5, "Rating from 1 to 5")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Comment text")

	cmd.AddCommand(commentEditCmd(appRef))
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <establishment-id> <comment-id>",
		Short: "Delete a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDetail(cmd, appRef, args[0], func(v *views.EstablishmentDetailView) error {
				return v.DeleteComment(cmd.Context(), args[1])
			})
		},
	})

	return cmd
}

func commentEditCmd(appRef func() *app) *cobra.Command {
	var (
		rating int
		body   string
	)

	cmd := &cobra.Command{
		Use:   "edit <establishment-id> <comment-id>",
		Short: "Change the rating and text of a comment",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDetail(cmd, appRef, args[0], func(v *views.EstablishmentDetailView) error {
				if _, err := v.EditComment(cmd.Context(), args[1], rating, body); err != nil {
					return err
				}
				d := v.Detail()
				fmt.Fprintf(cmd.OutOrStdout(), "Rating is now %.1f over %d comments\n", d.AverageRating, d.CommentCount)
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&rating, "rating", "r", 5, "Rating from 1 to 5")
	cmd.Flags().StringVarP(&body, "body", "b", "", "Comment text")

	return cmd
}
