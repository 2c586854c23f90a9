// internal/app/system/inputval/inputval.go
//
// Package inputval validates form input structs using `validate` struct tags.
// A `label` tag supplies the field name used in user-facing messages.
//
//	type createGroupInput struct {
//	    Name string `validate:"required,max=100" label:"Group name"`
//	}
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		if label := f.Tag.Get("label"); label != "" {
			return label
		}
		return f.Name
	})
	return v
}

// Result holds user-facing messages for each failed field, in field order.
type Result struct {
	Errors []string
}

// HasErrors reports whether any field failed validation.
func (r Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "" if there are none.
func (r Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0]
}

// All joins every message into one string.
func (r Result) All() string { return strings.Join(r.Errors, " ") }

// Validate checks s against its struct tags.
func Validate(s any) Result {
	err := validate.Struct(s)
	if err == nil {
		return Result{}
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return Result{Errors: []string{"Invalid input."}}
	}
	out := Result{Errors: make([]string, 0, len(verrs))}
	for _, fe := range verrs {
		out.Errors = append(out.Errors, message(fe))
	}
	return out
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required.", label)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email address.", label)
	case "gte":
		return fmt.Sprintf("%s must be %s or more.", label, fe.Param())
	case "eqfield":
		return fmt.Sprintf("%s does not match.", label)
	default:
		return fmt.Sprintf("%s is invalid.", label)
	}
}
