package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/zatekoja/boulevard/internal/application/views"
	"github.com/zatekoja/boulevard/internal/domain/entities"
)

func establishmentsCmd(appRef func() *app) *cobra.Command {
	var (
		all  bool
		page int
	)

	cmd := &cobra.Command{
		Use:     "establishments",
		Aliases: []string{"ls"},
		Short:   "List establishments",
		Long: `List approved establishments one page at a time.

Administrators can pass --all to include listings awaiting moderation.

Examples:
  boulevard establishments
  boulevard establishments --page 2
  boulevard establishments --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			scope := a.scope(cmd.Context())
			defer scope.Close()

			mode := views.ListApproved
			if all {
				mode = views.ListAll
			}
			v := views.NewEstablishmentListView(scope, a.deps, mode)
			if err := v.Load(cmd.Context()); err != nil {
				return err
			}
			if v.Snapshot().Empty {
				fmt.Fprintln(cmd.OutOrStdout(), "No establishments yet.")
				return nil
			}

			current := v.SetPage(page - 1)
			printCards(cmd.OutOrStdout(), v.Cards())
			fmt.Fprintf(cmd.OutOrStdout(), "\nPage %d of %d\n", current+1, v.PageCount())
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include listings that are not approved (administrators)")
	cmd.Flags().IntVarP(&page, "page", "p", 1, "Page number")

	return cmd
}

func showCmd(appRef func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one establishment with its comments",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			scope := a.scope(cmd.Context())
			defer scope.Close()

			v := views.NewEstablishmentDetailView(scope, a.deps, args[0])
			if err := v.Load(cmd.Context()); err != nil {
				return err
			}
			printDetail(cmd.OutOrStdout(), v.Detail())
			return nil
		},
	}
}

func likeCmd(appRef func() *app) *cobra.Command {
	return relationCmd(appRef, "like", "Like or unlike an establishment", func(cmd *cobra.Command, v *views.EstablishmentDetailView) error {
		state, err := v.ToggleLike(cmd.Context())
		if err != nil {
			return err
		}
		if state.On {
			fmt.Fprintf(cmd.OutOrStdout(), "Liked (%d likes)\n", state.Count)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Unliked (%d likes)\n", state.Count)
		}
		return nil
	})
}

func followCmd(appRef func() *app) *cobra.Command {
	return relationCmd(appRef, "follow", "Follow or unfollow an establishment", func(cmd *cobra.Command, v *views.EstablishmentDetailView) error {
		state, err := v.ToggleFollow(cmd.Context())
		if err != nil {
			return err
		}
		if state.On {
			fmt.Fprintf(cmd.OutOrStdout(), "Following (%d followers)\n", state.Count)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Unfollowed (%d followers)\n", state.Count)
		}
		return nil
	})
}

// relationCmd loads the establishment so the toggle starts from the backend's
// current membership, then flips it once.
func relationCmd(appRef func() *app, use, short string, run func(*cobra.Command, *views.EstablishmentDetailView) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			scope := a.scope(cmd.Context())
			defer scope.Close()

			v := views.NewEstablishmentDetailView(scope, a.deps, args[0])
			if err := v.Load(cmd.Context()); err != nil {
				return err
			}
			return run(cmd, v)
		},
	}
}

func nearbyCmd(appRef func() *app) *cobra.Command {
	var (
		lat, lon float64
		radius   float64
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "nearby",
		Short: "List approved establishments closest to a point",
		Long: `List approved establishments ordered by distance from a point.

Examples:
  boulevard nearby --lat 19.4326 --lon -99.1332
  boulevard nearby --lat 19.4326 --lon -99.1332 --radius 2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := appRef()
			list, err := a.deps.Establishments.ListApproved(cmd.Context())
			if err != nil {
				return err
			}

			places := views.Nearby(list, lat, lon, radius)
			if limit > 0 && len(places) > limit {
				places = places[:limit]
			}
			if len(places) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing nearby.")
				return nil
			}

			tw := newTable(cmd.OutOrStdout())
			fmt.Fprintln(tw, "ID\tNAME\tADDRESS\tKM")
			for _, p := range places {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\n", p.Establishment.ID, p.Establishment.Name, p.Location.Address, p.DistanceKm)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	cmd.Flags().Float64Var(&radius, "radius", 0, "Maximum distance in km (0 for no limit)")
	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum number of results")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")

	return cmd
}

func createCmd(appRef func() *app) *cobra.Command {
	var (
		form      entities.EstablishmentForm
		address   string
		city      string
		lat, lon  float64
		schedules []string
		images    []string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Submit a new establishment for review",
		Long: `Submit a new establishment. New listings stay pending until an
administrator approves them.

Schedules are given as day=opens-closes.

Examples:
  boulevard create --name "Café Central" --description "Coffee" --phone 5551234567 \
    --address "Madero 1" --lat 19.43 --lon -99.13 --schedule lunes=08:00-18:00 \
    --image front.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if address != "" {
				form.Locations = []entities.Location{{Address: address, City: city, Latitude: lat, Longitude: lon}}
			}
			for _, s := range schedules {
				sched, err := parseSchedule(s)
				if err != nil {
					return err
				}
				form.Schedules = append(form.Schedules, sched)
			}
			for _, path := range images {
				up, err := readUpload(path)
				if err != nil {
					return err
				}
				form.Files = append(form.Files, up)
			}

			a := appRef()
			scope := a.scope(cmd.Context())
			defer scope.Close()

			created, err := views.CreateEstablishment(cmd.Context(), scope, a.deps, &form)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s (%s)\n", created.ID, created.ModerationState)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "Name")
	cmd.Flags().StringVar(&form.Description, "description", "", "Description")
	cmd.Flags().StringVar(&form.Phone, "phone", "", "Phone number")
	cmd.Flags().StringVar(&address, "address", "", "Street address")
	cmd.Flags().StringVar(&city, "city", "", "City")
	cmd.Flags().Float64Var(&lat, "lat", 0, "Latitude")
	cmd.Flags().Float64Var(&lon, "lon", 0, "Longitude")
	cmd.Flags().StringArrayVar(&schedules, "schedule", nil, "Opening hours as day=opens-closes (repeatable)")
	cmd.Flags().StringSliceVar(&form.CategoryIDs, "category", nil, "Category ids")
	cmd.Flags().StringSliceVar(&form.TypeIDs, "type", nil, "Type ids")
	cmd.Flags().StringArrayVar(&images, "image", nil, "Image file to upload (repeatable)")

	return cmd
}

func moderateCmd(appRef func() *app) *cobra.Command {
	return &cobra.Command{
		Use:       "moderate <id> <pendiente|aprobado|rechazado>",
		Short:     "Change the moderation state of an establishment (administrators)",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{string(entities.ModerationPending), string(entities.ModerationApproved), string(entities.ModerationRejected)},
		RunE: func(cmd *cobra.Command, args []string) error {
			state := entities.ModerationState(args[1])
			if !state.Valid() {
				return fmt.Errorf("unknown moderation state %q", args[1])
			}
			return withDetail(cmd, appRef, args[0], func(v *views.EstablishmentDetailView) error {
				return v.SetModerationState(cmd.Context(), state)
			})
		},
	}
}

func verifyCmd(appRef func() *app) *cobra.Command {
	var unset bool

	cmd := &cobra.Command{
		Use:   "verify <id>",
		Short: "Mark an establishment as verified (administrators)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDetail(cmd, appRef, args[0], func(v *views.EstablishmentDetailView) error {
				return v.SetVerified(cmd.Context(), !unset)
			})
		},
	}

	cmd.Flags().BoolVar(&unset, "unset", false, "Remove the verified mark")

	return cmd
}

func deleteImageCmd(appRef func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete-image <id> <image-id>",
		Short: "Remove an image from an establishment's gallery",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDetail(cmd, appRef, args[0], func(v *views.EstablishmentDetailView) error {
				return v.DeleteImage(cmd.Context(), args[1])
			})
		},
	}
}

func withDetail(cmd *cobra.Command, appRef func() *app, id string, fn func(*views.EstablishmentDetailView) error) error {
	a := appRef()
	scope := a.scope(cmd.Context())
	defer scope.Close()

	v := views.NewEstablishmentDetailView(scope, a.deps, id)
	if err := v.Load(cmd.Context()); err != nil {
		return err
	}
	return fn(v)
}

func parseSchedule(s string) (entities.Schedule, error) {
	day, hours, ok := strings.Cut(s, "=")
	if ok {
		if opens, closes, ok := strings.Cut(hours, "-"); ok {
			return entities.Schedule{Day: day, Opens: opens, Closes: closes}, nil
		}
	}
	return entities.Schedule{}, fmt.Errorf("invalid schedule %q, want day=opens-closes", s)
}

func readUpload(path string) (entities.Upload, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entities.Upload{}, fmt.Errorf("failed to read image: %w", err)
	}
	return entities.Upload{
		Field:    "imagenes",
		Filename: filepath.Base(path),
		Data:     data,
	}, nil
}
