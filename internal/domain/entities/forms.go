package entities

// Upload is a file attached to a create/update submission
type Upload struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// EstablishmentForm is the owner-facing create/update payload
type EstablishmentForm struct {
	Name        string     `json:"nombre" validate:"required,max=120"`
	Description string     `json:"descripcion" validate:"required,max=2000"`
	Phone       string     `json:"telefono" validate:"required,min=7,max=20"`
	Locations   []Location `json:"ubicaciones" validate:"dive"`
	Schedules   []Schedule `json:"horarios" validate:"dive"`
	CategoryIDs []string   `json:"categorias,omitempty"`
	TypeIDs     []string   `json:"tipos,omitempty"`
	Files       []Upload   `json:"-"`
}

// HasFiles reports whether the submission must be sent as multipart
func (f *EstablishmentForm) HasFiles() bool {
	return len(f.Files) > 0
}

// ChatReply is the assistant's answer: a text reply, suggestions, or both
type ChatReply struct {
	Reply          string          `json:"respuesta"`
	Establishments []Establishment `json:"establecimientos"`
}
