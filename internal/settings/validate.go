package settings

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/infoscreen/infoscreen/internal/db/models"
)

// messages maps "Field.tag" to the message shown to the client.
var messages = map[string]string{ //nolint:gochecknoglobals
	"ID.required":       "ID cannot be empty",
	"SlideInterval.gte": "Slide interval must be >= 1000ms",
}

// validateSettings checks the invariants of a record before it is written.
func (s *Store) validateSettings(v models.Settings) error {
	err := s.validator.Struct(v)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return NewValidationError(opSet, err.Error())
	}

	errorMessages := make([]string, len(validationErrors))
	for i, ve := range validationErrors {
		msg, ok := messages[ve.Field()+"."+ve.Tag()]
		if !ok {
			msg = "Field '" + ve.Field() + "' failed validation tag '" + ve.Tag() + "'"
		}

		errorMessages[i] = msg
	}

	return NewValidationError(opSet, strings.Join(errorMessages, "; "))
}
