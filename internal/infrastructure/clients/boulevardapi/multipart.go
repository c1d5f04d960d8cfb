package boulevardapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"

	"github.com/zatekoja/boulevard/internal/domain/entities"
)

const defaultFileField = "imagenes"

type multipartBody struct {
	reader      io.Reader
	contentType string
}

// newEstablishmentMultipart encodes a form as multipart/form-data.
// Slice fields are sent as JSON strings, which is what the backend parses.
func newEstablishmentMultipart(form *entities.EstablishmentForm) (*multipartBody, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	fields := map[string]string{
		"nombre":      form.Name,
		"descripcion": form.Description,
		"telefono":    form.Phone,
	}
	for _, key := range []string{"nombre", "descripcion", "telefono"} {
		if err := w.WriteField(key, fields[key]); err != nil {
			return nil, err
		}
	}

	jsonFields := []struct {
		key   string
		value interface{}
		empty bool
	}{
		{"ubicaciones", form.Locations, len(form.Locations) == 0},
		{"horarios", form.Schedules, len(form.Schedules) == 0},
		{"categorias", form.CategoryIDs, len(form.CategoryIDs) == 0},
		{"tipos", form.TypeIDs, len(form.TypeIDs) == 0},
	}
	for _, f := range jsonFields {
		if f.empty {
			continue
		}
		data, err := json.Marshal(f.value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode %s: %w", f.key, err)
		}
		if err := w.WriteField(f.key, string(data)); err != nil {
			return nil, err
		}
	}

	for _, file := range form.Files {
		field := file.Field
		if field == "" {
			field = defaultFileField
		}
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, field, file.Filename))
		contentType := file.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		header.Set("Content-Type", contentType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, err
		}
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return &multipartBody{reader: &buf, contentType: w.FormDataContentType()}, nil
}
