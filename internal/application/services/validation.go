package services

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/zatekoja/boulevard/internal/domain/entities"
	apperrors "github.com/zatekoja/boulevard/pkg/errors"
)

// MaxImageBytes is the largest image accepted for upload
const MaxImageBytes = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

// Validator checks submissions before they are sent to the backend
type Validator struct {
	validate *validator.Validate
}

// NewValidator creates a validator that reports fields by their wire names
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Establishment validates an establishment form and its attached images
func (v *Validator) Establishment(form *entities.EstablishmentForm) error {
	var details []string
	if err := v.validate.Struct(form); err != nil {
		details = append(details, fieldDetails(err)...)
	}
	for _, f := range form.Files {
		details = append(details, checkUpload(f)...)
	}
	if len(details) > 0 {
		return apperrors.NewValidationError("Please review the establishment details.", details...)
	}
	return nil
}

// Comment validates a comment before it is posted
func (v *Validator) Comment(input *entities.CommentInput) error {
	if err := v.validate.Struct(input); err != nil {
		return apperrors.NewValidationError("Please review your comment.", fieldDetails(err)...)
	}
	return nil
}

func checkUpload(f entities.Upload) []string {
	var details []string
	if len(f.Data) > MaxImageBytes {
		details = append(details, fmt.Sprintf("%s: exceeds %d MB", f.Filename, MaxImageBytes>>20))
	}
	contentType := f.ContentType
	if contentType == "" {
		contentType = http.DetectContentType(f.Data)
	}
	if !allowedImageTypes[strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))] {
		details = append(details, fmt.Sprintf("%s: unsupported image type %q", f.Filename, contentType))
	}
	return details
}

func fieldDetails(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	details := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		details = append(details, describeField(fe))
	}
	return details
}

func describeField(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "latitude", "longitude":
		return fmt.Sprintf("%s is not a valid %s", field, fe.Tag())
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
