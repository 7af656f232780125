package facility

// Package facility is the CRUD gateway to the remote voorzieningen API.

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Facility mirrors the wire shape of one voorziening record. A record with
// no ID is a draft that exists only in the edit buffer; the backend assigns
// the ID on create and it is immutable afterwards.
type Facility struct {
	ID          string  `json:"id,omitempty"`
	Name        string  `json:"naam"         validate:"required"`
	Description string  `json:"beschrijving"`
	Longitude   float64 `json:"longitude"    validate:"gte=-180,lte=180"`
	Latitude    float64 `json:"latitude"     validate:"gte=-90,lte=90"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the draft before it is sent to the backend.
func (f Facility) Validate() error {
	if strings.TrimSpace(f.Name) == "" {
		return errors.New("naam is required")
	}
	if err := validate.Struct(f); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fieldError(verrs[0])
		}
		return err
	}
	return nil
}

// IsDraft reports whether the record has not been persisted yet.
func (f Facility) IsDraft() bool { return f.ID == "" }

// fieldError rewrites a validator error into a message in wire-field terms.
func fieldError(fe validator.FieldError) error {
	switch fe.Field() {
	case "Name":
		return errors.New("naam is required")
	case "Longitude":
		return errors.New("longitude must be between -180 and 180")
	case "Latitude":
		return errors.New("latitude must be between -90 and 90")
	default:
		return errors.New("invalid " + strings.ToLower(fe.Field()))
	}
}
