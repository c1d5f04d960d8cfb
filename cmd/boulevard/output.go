package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/zatekoja/boulevard/internal/application/optimistic"
	"github.com/zatekoja/boulevard/internal/application/views"
	"github.com/zatekoja/boulevard/internal/domain/entities"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func mark(on bool) string {
	if on {
		return "*"
	}
	return " "
}

func printCards(w io.Writer, cards []views.Card) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tLIKES\tFOLLOWERS\tRATING")
	for _, c := range cards {
		e := c.Establishment
		fmt.Fprintf(tw, "%s\t%s\t%s%d\t%s%d\t%.1f\n",
			e.ID, e.Name,
			mark(c.Like.On), c.Like.Count,
			mark(c.Follow.On), c.Follow.Count,
			entities.AverageRating(e.Comments))
	}
	tw.Flush()
}

func printEstablishments(w io.Writer, list []entities.Establishment) {
	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tPHONE")
	for _, e := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", e.ID, e.Name, e.Phone)
	}
	tw.Flush()
}

func printDetail(w io.Writer, d *views.Detail) {
	e := d.Establishment
	fmt.Fprintf(w, "%s", e.Name)
	if e.Verified {
		fmt.Fprint(w, " (verified)")
	}
	fmt.Fprintf(w, "\n%s\n\n", e.Description)
	fmt.Fprintf(w, "Phone:     %s\n", e.Phone)
	fmt.Fprintf(w, "State:     %s\n", e.ModerationState)
	fmt.Fprintf(w, "Likes:     %s\n", describeState(d.Like))
	fmt.Fprintf(w, "Followers: %s\n", describeState(d.Follow))
	fmt.Fprintf(w, "Rating:    %.1f (%d comments)\n", d.AverageRating, d.CommentCount)

	for _, loc := range e.Locations {
		fmt.Fprintf(w, "Address:   %s", loc.Address)
		if loc.City != "" {
			fmt.Fprintf(w, ", %s", loc.City)
		}
		fmt.Fprintln(w)
	}
	for _, s := range e.Schedules {
		fmt.Fprintf(w, "Open:      %s %s-%s\n", s.Day, s.Opens, s.Closes)
	}
	for _, img := range e.Images {
		fmt.Fprintf(w, "Image:     %s %s\n", img.ID, img.URL)
	}
	if len(e.Comments) > 0 {
		fmt.Fprintln(w)
		for _, c := range e.Comments {
			author := c.Author.Name
			if author == "" {
				author = c.Author.ID
			}
			fmt.Fprintf(w, "[%s] %s %s: %s\n", c.ID, strings.Repeat("★", c.Rating), author, c.Body)
		}
	}
}

func describeState(s optimistic.State) string {
	if s.On {
		return fmt.Sprintf("%d (you)", s.Count)
	}
	return fmt.Sprintf("%d", s.Count)
}
