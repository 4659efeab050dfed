package utils

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// basicEmailPattern accepts anything shaped like local@domain.tld.
var basicEmailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// MaxPasswordBytes is the most bcrypt will hash. Counted in bytes, not runes.
const MaxPasswordBytes = 72

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("basic_email", func(fl validator.FieldLevel) bool {
		return basicEmailPattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	if err := v.RegisterValidation("password_bytes", func(fl validator.FieldLevel) bool {
		return len(fl.Field().String()) <= MaxPasswordBytes
	}); err != nil {
		panic(err)
	}
	return v
}

// Validate runs the struct's validate tags and returns the failing fields, or nil.
func Validate(data any) validator.ValidationErrors {
	err := validate.Struct(data)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		return validationErrors
	}

	return nil
}

func ValidateStruct(data any) map[string]string {
	validationErrors := Validate(data)
	if len(validationErrors) == 0 {
		return nil
	}

	errs := make(map[string]string, len(validationErrors))
	for _, err := range validationErrors {
		errs[err.Field()] = getErrorMessage(err)
	}

	return errs
}

// HasTag reports whether any field failed on tag.
func HasTag(validationErrors validator.ValidationErrors, tag string) bool {
	for _, err := range validationErrors {
		if err.Tag() == tag {
			return true
		}
	}
	return false
}

// converts validator errors to human-readable messages
func getErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "This field is required"
	case "email", "basic_email":
		return "Invalid email format"
	case "min":
		return fmt.Sprintf("Minimum length is %s", err.Param())
	case "password_bytes":
		return fmt.Sprintf("Maximum length is %d bytes", MaxPasswordBytes)
	case "max":
		return fmt.Sprintf("Maximum length is %s", err.Param())
	case "len":
		return fmt.Sprintf("Must be exactly %s characters", err.Param())
	case "numeric":
		return "Must contain digits only"
	default:
		return fmt.Sprintf("Invalid %s field", err.Field())
	}
}

// formats validation errors map into single string
func FormatValidationErrors(errs map[string]string) string {
	fields := make([]string, 0, len(errs))
	for field := range errs {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	msgs := make([]string, 0, len(fields))
	for _, field := range fields {
		msgs = append(msgs, fmt.Sprintf("%s: %s", field, errs[field]))
	}
	return strings.Join(msgs, "; ")
}
