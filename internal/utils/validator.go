package utils

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	Validate *validator.Validate

	validatorOnce sync.Once
	usernameRegex = regexp.MustCompile(`^[\w.@+-]+$`)
)

func InitValidator() {
	validatorOnce.Do(func() {
		Validate = validator.New(validator.WithRequiredStructEnabled())

		// report json names instead of Go field names
		Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		_ = Validate.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			v := fl.Field().String()
			return usernameRegex.MatchString(v) && !strings.EqualFold(v, "me")
		})
	})
}

// Validator returns the shared validator, building it on first use.
func Validator() *validator.Validate {
	InitValidator()
	return Validate
}

// ValidationErrors flattens validator errors into field -> messages. Errors
// on list items are reported under the list's field with the item path in
// front of the message. The second result is false when err is not a
// validator error.
func ValidationErrors(err error) (map[string][]string, bool) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil, false
	}

	fields := make(map[string][]string, len(verrs))
	for _, fe := range verrs {
		field, path := fieldPath(fe)
		msg := fieldMessage(fe)
		if path != "" {
			msg = path + ": " + msg
		}
		fields[field] = append(fields[field], msg)
	}
	return fields, true
}

// fieldPath splits "RecipeRequest.ingredients[1].amount" into the top-level
// field and, for nested errors, the path below the root struct.
func fieldPath(fe validator.FieldError) (string, string) {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	if i := strings.IndexAny(ns, ".["); i >= 0 {
		return ns[:i], ns
	}
	return ns, ""
}

func isCollection(k reflect.Kind) bool {
	return k == reflect.Slice || k == reflect.Array || k == reflect.Map
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		switch {
		case isCollection(fe.Kind()):
			return fmt.Sprintf("ensure this list has at least %s items", fe.Param())
		case fe.Kind() == reflect.String:
			return fmt.Sprintf("ensure this field has at least %s characters", fe.Param())
		default:
			return fmt.Sprintf("ensure this value is greater than or equal to %s", fe.Param())
		}
	case "max":
		switch {
		case isCollection(fe.Kind()):
			return fmt.Sprintf("ensure this list has no more than %s items", fe.Param())
		case fe.Kind() == reflect.String:
			return fmt.Sprintf("ensure this field has no more than %s characters", fe.Param())
		default:
			return fmt.Sprintf("ensure this value is less than or equal to %s", fe.Param())
		}
	case "gt":
		return fmt.Sprintf("ensure this value is greater than %s", fe.Param())
	case "unique":
		return "items must not repeat"
	case "username":
		return `username may contain only letters, digits and @/./+/-/_ and cannot be "me"`
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}
