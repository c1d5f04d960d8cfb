package entities

import (
	"time"
)

// ModerationState is the administrator-controlled publication state of a listing
type ModerationState string

const (
	ModerationPending  ModerationState = "pendiente"
	ModerationApproved ModerationState = "aprobado"
	ModerationRejected ModerationState = "rechazado"
)

// Valid reports whether s is a state the backend accepts
func (s ModerationState) Valid() bool {
	switch s {
	case ModerationPending, ModerationApproved, ModerationRejected:
		return true
	}
	return false
}

// Establishment is a local business listing
type Establishment struct {
	ID              string          `json:"_id"`
	Name            string          `json:"nombre"`
	Description     string          `json:"descripcion"`
	Phone           string          `json:"telefono"`
	Locations       []Location      `json:"ubicaciones"`
	Schedules       []Schedule      `json:"horarios"`
	Images          []Image         `json:"imagenes"`
	Categories      []Ref           `json:"categorias"`
	Types           []Ref           `json:"tipos"`
	Owner           Ref             `json:"propietario"`
	Likes           []Ref           `json:"likes"`
	Followers       []Ref           `json:"seguidores"`
	Comments        []Comment       `json:"comentarios"`
	AverageRating   float64         `json:"promedioCalificacion"`
	ModerationState ModerationState `json:"estado"`
	Verified        bool            `json:"verificado"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// Location is one physical address of an establishment
type Location struct {
	Address   string  `json:"direccion" validate:"required"`
	City      string  `json:"ciudad,omitempty"`
	Latitude  float64 `json:"latitud" validate:"latitude"`
	Longitude float64 `json:"longitud" validate:"longitude"`
}

// Schedule is the opening window for one weekday
type Schedule struct {
	Day    string `json:"dia" validate:"required"`
	Opens  string `json:"apertura" validate:"required"`
	Closes string `json:"cierre" validate:"required"`
}

// Image is an uploaded gallery image
type Image struct {
	ID  string `json:"_id"`
	URL string `json:"url"`
}

// LikerIDs returns the ids of users who liked the establishment, each once
func (e *Establishment) LikerIDs() []string {
	return uniqueIDs(e.Likes)
}

// FollowerIDs returns the ids of users following the establishment, each once
func (e *Establishment) FollowerIDs() []string {
	return uniqueIDs(e.Followers)
}

// IsOwnedBy reports whether userID owns the listing
func (e *Establishment) IsOwnedBy(userID string) bool {
	return userID != "" && e.Owner.ID == userID
}

// HasCoordinates reports whether any location carries usable coordinates
func (e *Establishment) HasCoordinates() bool {
	for _, loc := range e.Locations {
		if loc.Latitude != 0 || loc.Longitude != 0 {
			return true
		}
	}
	return false
}

func uniqueIDs(refs []Ref) []string {
	seen := make(map[string]struct{}, len(refs))
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		if r.ID == "" {
			continue
		}
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		ids = append(ids, r.ID)
	}
	return ids
}

// Contains reports whether id is present in ids
func Contains(ids []string, id string) bool {
	if id == "" {
		return false
	}
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
