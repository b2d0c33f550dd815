package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/munjed-ab/djcraft/internal/catalog"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

// structValidator returns the shared validator. Field names in errors
// use the YAML keys, so messages match what the user wrote.
func structValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
	})
	return validate
}

// Validate checks doc without generating anything and returns every
// problem found as *ValidationErrors, or nil. It covers field-level
// rules, names, paths, containment, unknown services, service options
// and service dependencies.
func Validate(doc *Document, cat *catalog.Catalog) error {
	_, errs := build(doc, cat, ".")
	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// validateFields runs the struct tag rules.
func validateFields(doc *Document) []ValidationError {
	err := structValidator().Struct(doc)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return []ValidationError{{Field: "document", Message: err.Error(), Wrapped: ErrInvalidConfig}}
	}

	out := make([]ValidationError, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, ValidationError{
			Field:   fieldPath(fe.Namespace()),
			Message: fieldMessage(fe),
			Value:   fe.Value(),
			Wrapped: ErrInvalidConfig,
		})
	}
	return out
}

// fieldPath drops the root struct name: "Document.apps[0].name" becomes
// "apps[0].name".
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(fe.Param()), ", ")
	default:
		return fmt.Sprintf("failed %q rule", fe.Tag())
	}
}
