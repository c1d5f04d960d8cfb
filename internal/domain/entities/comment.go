package entities

import (
	"math"
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Comment is a rated review left on an establishment
type Comment struct {
	ID              string    `json:"_id"`
	Establishment   Ref       `json:"establecimiento"`
	Author          Ref       `json:"usuario"`
	Rating          int       `json:"calificacion"`
	Body            string    `json:"comentario"`
	CreatedAt       time.Time `json:"fecha"`
}

// CommentInput is the payload for creating or editing a comment
type CommentInput struct {
	EstablishmentID string `json:"establecimiento" validate:"required"`
	Rating          int    `json:"calificacion" validate:"min=1,max=5"`
	Body            string `json:"comentario" validate:"required,max=1000"`
}

// AverageRating returns the mean rating rounded to one decimal, or 0 without comments
func AverageRating(comments []Comment) float64 {
	if len(comments) == 0 {
		return 0
	}
	sum := 0
	for _, c := range comments {
		sum += c.Rating
	}
	avg := float64(sum) / float64(len(comments))
	return math.Round(avg*10) / 10
}
