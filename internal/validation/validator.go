// Package validation checks contact form submissions and reports every
// failing field in a form the website can render next to its inputs.
package validation

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	validatorv10 "github.com/go-playground/validator/v10"

	"github.com/accuro-ph/accuro-api/internal/dto"
)

const (
	minMessageLength = 20
	maxMessageLength = 2000
)

var (
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phPhonePattern = regexp.MustCompile(`^(\+63|0)[0-9]{10}$`)
	phoneStripper  = strings.NewReplacer(" ", "", "-", "")
)

// FieldError describes a single rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator validates contact submissions. In strict mode the rules the
// website form applies client-side (name length, Philippine phone numbers,
// message length) are enforced as well.
type Validator struct {
	validate *validatorv10.Validate
	strict   bool
}

// New returns a configured validator with the contact form rules registered.
func New(strict bool) *Validator {
	v := &Validator{
		validate: validatorv10.New(validatorv10.WithRequiredStructEnabled()),
		strict:   strict,
	}

	v.validate.RegisterTagNameFunc(jsonFieldName)
	v.mustRegister("trimmed_required", trimmedRequired)
	v.mustRegister("loose_email", looseEmail)
	v.mustRegister("strict_min", v.strictMin)
	v.mustRegister("ph_phone", v.philippinePhone)
	v.mustRegister("message_length", v.messageLength)

	return v
}

// Strict reports whether client-side rules are enforced.
func (v *Validator) Strict() bool {
	return v.strict
}

// Validate trims the submission and checks every rule. All failing fields are
// reported, at most one message per field, in form order. The trimmed payload
// is returned for storage when no errors are found.
func (v *Validator) Validate(req dto.ContactRequest) (dto.ContactRequest, []FieldError) {
	trimmed := Trim(req)

	err := v.validate.Struct(trimmed)
	if err == nil {
		return trimmed, nil
	}

	var validationErrors validatorv10.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return trimmed, []FieldError{{Field: "payload", Message: "Invalid request payload"}}
	}

	out := make([]FieldError, 0, len(validationErrors))
	for _, fe := range validationErrors {
		out = append(out, FieldError{Field: fe.Field(), Message: messageFor(fe)})
	}
	return trimmed, out
}

// Trim removes surrounding whitespace from every user supplied field.
func Trim(req dto.ContactRequest) dto.ContactRequest {
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Company = strings.TrimSpace(req.Company)
	req.InquiryType = strings.TrimSpace(req.InquiryType)
	req.ProductInterest = strings.TrimSpace(req.ProductInterest)
	req.Subject = strings.TrimSpace(req.Subject)
	req.Message = strings.TrimSpace(req.Message)
	return req
}

func (v *Validator) mustRegister(tag string, fn validatorv10.Func) {
	if err := v.validate.RegisterValidation(tag, fn); err != nil {
		panic("validation: register " + tag + ": " + err.Error())
	}
}

func jsonFieldName(field reflect.StructField) string {
	name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func trimmedRequired(fl validatorv10.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func looseEmail(fl validatorv10.FieldLevel) bool {
	return emailPattern.MatchString(strings.TrimSpace(fl.Field().String()))
}

func (v *Validator) strictMin(fl validatorv10.FieldLevel) bool {
	if !v.strict {
		return true
	}
	minimum, err := strconv.Atoi(fl.Param())
	if err != nil {
		return true
	}
	return utf8.RuneCountInString(strings.TrimSpace(fl.Field().String())) >= minimum
}

func (v *Validator) philippinePhone(fl validatorv10.FieldLevel) bool {
	if !v.strict {
		return true
	}
	return phPhonePattern.MatchString(phoneStripper.Replace(fl.Field().String()))
}

func (v *Validator) messageLength(fl validatorv10.FieldLevel) bool {
	if !v.strict {
		return true
	}
	length := utf8.RuneCountInString(strings.TrimSpace(fl.Field().String()))
	return length >= minMessageLength && length <= maxMessageLength
}
