package dto

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// HandleValidationError converts a binding error into an ErrorDetail with a
// readable per-field message.
func HandleValidationError(err error) *ErrorDetail {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errorDetail := NewErrorDetail(ErrorCodeValidationFailed, "Invalid request format")
		return errorDetail.WithDetails(err.Error())
	}

	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, formatValidationError(e))
	}

	errorDetail := NewErrorDetail(ErrorCodeValidationFailed, "Validation failed")
	if len(verrs) == 1 {
		errorDetail = errorDetail.WithField(verrs[0].Field())
	}
	return errorDetail.WithDetails(messages)
}

// formatValidationError creates a human-readable validation error message
func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "email":
		return e.Field() + " must be a valid email address"
	case "oneof":
		return e.Field() + " must be one of: " + e.Param()
	case "department":
		return e.Field() + " must be a known department"
	default:
		return e.Field() + " validation failed: " + e.Tag()
	}
}
