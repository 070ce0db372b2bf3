package validate

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// RequestValidator adapts go-playground/validator to echo's Validator
// interface. Field names in errors are the JSON names the gateway sends.
type RequestValidator struct {
	validator *validator.Validate
}

func New() *RequestValidator {
	validate := validator.New()

	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := field.Tag.Get("json")
		if tag == "" {
			return field.Name
		}

		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}

		return name
	})

	return &RequestValidator{validator: validate}
}

func (rv *RequestValidator) Validate(i any) error {
	err := rv.validator.Struct(i)
	if err == nil {
		return nil
	}
	if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
		// first failure only, matching the gateway's one-error responses
		first := verrs[0]
		return &Error{Field: first.Field(), Tag: first.Tag()}
	}
	return err
}

// Error is a single request-field validation failure.
type Error struct {
	Field string
	Tag   string
}

func (e *Error) Error() string {
	if e.Tag == "required" {
		return "Missing required field: " + e.Field
	}
	return "Invalid field: " + e.Field
}
