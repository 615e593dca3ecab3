// Package validation wraps go-playground/validator with json field names and
// failures rendered as VALIDATION_ERROR.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	pkgerrors "github.com/angelmondragon/creatordash-billing/pkg/errors"
	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	return v
}

// Struct validates dest. subject prefixes the error message, e.g.
// "invalid invoice payload: customer is required".
func Struct(subject string, dest any) error {
	err := validate.Struct(dest)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, subject)
	}

	details := map[string]string{}
	parts := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		field := fieldPath(fieldErr)
		msg := message(fieldErr)
		details[field] = msg
		parts = append(parts, field+" "+msg)
	}
	sort.Strings(parts)
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("%s: %s", subject, strings.Join(parts, ", "))).WithDetails(details)
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if idx := strings.Index(ns, "."); idx >= 0 {
		return ns[idx+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_if":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "len":
		return fmt.Sprintf("must have length %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "startswith":
		return fmt.Sprintf("must start with %q", fe.Param())
	}
	return "is invalid"
}
