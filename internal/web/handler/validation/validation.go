// Package validation wraps the shared validator instance used by all handlers.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	instance *validator.Validate
)

// FieldError describes one rejected input field.
type FieldError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

// Validator returns the shared validator. Field names are reported by their json tag.
func Validator() *validator.Validate {
	once.Do(func() {
		instance = validator.New(validator.WithRequiredStructEnabled())
		instance.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}

			if name == "" {
				return fld.Name
			}

			return name
		})
	})

	return instance
}

// Struct validates s.
func Struct(s any) error {
	return Validator().Struct(s) //nolint:wrapcheck
}

// Fields converts a validation error into field errors.
// Errors of any other kind yield nil.
func Fields(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   fieldPath(fe),
			Tag:     fe.Tag(),
			Message: message(fe),
		})
	}

	return out
}

// fieldPath drops the struct name from the namespace, "CreateUserInput.groupIds[0]" becomes "groupIds[0]".
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok {
		return rest
	}

	return fe.Field()
}

func message(fe validator.FieldError) string {
	name := fieldPath(fe)

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", name)
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", name)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters long.", name, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s.", name, fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s check.", name, fe.Tag())
	}
}
