package validation

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	// UploadInput fields
	"TargetUserID": "Target User",
	"Category":     "Document Category",
	"FileName":     "File Name",
	"FileType":     "File Type",
	"Size":         "File Size",
	"Content":      "File Content",

	// User fields
	"Email": "Email",
	"Name":  "Name",
	"Role":  "Role",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var messages []string

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		// Not a validation error, return generic message
		return []string{err.Error()}
	}

	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}

	return messages
}

func formatSingleError(e validator.FieldError) string {
	label, ok := FieldLabels[e.Field()]
	if !ok {
		label = e.Field()
	}

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", label)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.ReplaceAll(e.Param(), " ", ", "))
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", label, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", label, e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", label)
	default:
		return fmt.Sprintf("%s is invalid", label)
	}
}

// FormatAsSingleMessage joins validation errors into one message string
func FormatAsSingleMessage(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}
