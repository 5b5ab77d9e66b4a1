package validation

import (
	"fmt"
	"strings"
	"unicode/utf8"

	validatorv10 "github.com/go-playground/validator/v10"
)

var fieldLabels = map[string]string{
	"firstName": "First name",
	"lastName":  "Last name",
	"email":     "Email",
	"phone":     "Phone number",
	"subject":   "Subject",
	"message":   "Message",
}

func messageFor(fe validatorv10.FieldError) string {
	label := labelFor(fe.Field())

	switch fe.Tag() {
	case "trimmed_required", "required":
		return label + " is required"
	case "loose_email":
		return "Invalid email format"
	case "strict_min":
		return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
	case "ph_phone":
		return "Please enter a valid Philippine phone number (e.g., +63 9171507737 or 09171507737)"
	case "message_length":
		value, _ := fe.Value().(string)
		if utf8.RuneCountInString(strings.TrimSpace(value)) < minMessageLength {
			return fmt.Sprintf("Message must be at least %d characters long", minMessageLength)
		}
		return fmt.Sprintf("Message must not exceed %d characters", maxMessageLength)
	default:
		return label + " is invalid"
	}
}

func labelFor(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}
