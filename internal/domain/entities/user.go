package entities

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Role is the normalized role of an authenticated user
type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
	RoleAdmin Role = "admin"
)

// ParseRole normalizes the role strings the backend emits
func ParseRole(raw string) Role {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "admin", "administrador":
		return RoleAdmin
	case "propietario", "owner":
		return RoleOwner
	default:
		return RoleUser
	}
}

// User is the identity persisted next to the bearer token at login
type User struct {
	ID      string `json:"_id"`
	Name    string `json:"nombre"`
	Email   string `json:"email"`
	RawRole string `json:"rol"`
}

// Role returns the normalized role
func (u *User) Role() Role {
	return ParseRole(u.RawRole)
}

// IsAdmin reports whether the user may moderate content
func (u *User) IsAdmin() bool {
	return u.Role() == RoleAdmin
}

// UnmarshalJSON accepts both "_id" and "id" keys
func (u *User) UnmarshalJSON(data []byte) error {
	type alias User
	var raw struct {
		alias
		AltID string `json:"id"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*u = User(raw.alias)
	if u.ID == "" {
		u.ID = raw.AltID
	}
	return nil
}

// Session is the authenticated identity for the duration of a client session
type Session struct {
	Token string
	User  User
}

// UserID returns the session's user id
func (s *Session) UserID() string {
	return s.User.ID
}

// Ref is a reference to another record that the backend sends either as a
// bare id string or as a populated object.
type Ref struct {
	ID   string `json:"_id"`
	Name string `json:"nombre,omitempty"`
}

// UnmarshalJSON implements json.Unmarshaler
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*r = Ref{}
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var id string
		if err := json.Unmarshal(data, &id); err != nil {
			return err
		}
		*r = Ref{ID: id}
		return nil
	}
	var obj struct {
		ID    string `json:"_id"`
		AltID string `json:"id"`
		Name  string `json:"nombre"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return err
	}
	r.ID = obj.ID
	if r.ID == "" {
		r.ID = obj.AltID
	}
	r.Name = obj.Name
	return nil
}

// MarshalJSON sends references back as bare ids
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.ID)
}

// RefIDs collects reference ids
func RefIDs(refs []Ref) []string {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.ID)
	}
	return ids
}
