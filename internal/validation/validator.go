package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator checks request payloads and reports errors per JSON field
type Validator struct {
	validate *validator.Validate
}

// New creates a validator that names fields after their json tag
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return &Validator{validate: v}
}

// Struct validates s and returns field errors keyed by JSON name,
// or nil when s is valid
func (v *Validator) Struct(s interface{}) map[string][]string {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return map[string][]string{"_": {err.Error()}}
	}

	result := make(map[string][]string, len(fieldErrors))
	for _, fe := range fieldErrors {
		result[fe.Field()] = append(result[fe.Field()], message(fe))
	}
	return result
}

func message(fe validator.FieldError) string {
	numeric := false
	switch fe.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		numeric = true
	}

	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Please enter a valid email address."
	case "url", "http_url":
		return "Please enter a valid URL."
	case "min", "gte":
		if numeric {
			return fmt.Sprintf("Must be at least %s.", fe.Param())
		}
		return fmt.Sprintf("Must be at least %s characters.", fe.Param())
	case "max", "lte":
		if numeric {
			return fmt.Sprintf("Must be at most %s.", fe.Param())
		}
		return fmt.Sprintf("Must be at most %s characters.", fe.Param())
	case "oneof":
		return fmt.Sprintf("Must be one of: %s.", fe.Param())
	default:
		return "Invalid value."
	}
}
