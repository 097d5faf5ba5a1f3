package inputval

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"

	"github.com/cogitoedu/coursehub/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AllowedRolesList returns the account roles in their canonical order.
func AllowedRolesList() []string {
	return []string{"admin", "teacher", "student"}
}

// IsValidRole reports whether s names a known account role.
// Case-insensitive; surrounding whitespace is ignored.
func IsValidRole(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, r := range AllowedRolesList() {
		if s == r {
			return true
		}
	}
	return false
}

// IsValidHTTPURL reports whether s is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidObjectID reports whether s is a well-formed Mongo ObjectID hex
// string.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}

// FieldError is a single validation failure with a message fit to show
// the user.
type FieldError struct {
	Field   string
	Message string
}

// Result collects the failures from one Validate call.
type Result struct {
	Errors []FieldError
}

func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first error message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All returns every message joined with "; ".
func (r *Result) All() string {
	if len(r.Errors) == 0 {
		return ""
	}
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Prefer the label tag in error messages over the Go field name.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		if label := fld.Tag.Get("label"); label != "" {
			return label
		}
		return fld.Name
	})

	mustRegister(v, "role", func(fl validator.FieldLevel) bool {
		return IsValidRole(fl.Field().String())
	})
	mustRegister(v, "sectionkind", func(fl validator.FieldLevel) bool {
		return models.IsValidSectionKind(fl.Field().String())
	})
	mustRegister(v, "blockkind", func(fl validator.FieldLevel) bool {
		return models.IsValidBlockKind(fl.Field().String())
	})
	mustRegister(v, "eventkind", func(fl validator.FieldLevel) bool {
		return models.IsValidEventKind(fl.Field().String())
	})
	mustRegister(v, "httpurl", func(fl validator.FieldLevel) bool {
		return IsValidHTTPURL(fl.Field().String())
	})
	mustRegister(v, "objectid", func(fl validator.FieldLevel) bool {
		return IsValidObjectID(fl.Field().String())
	})

	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("inputval: register %q: %v", tag, err))
	}
}

// Validate checks input against its `validate` struct tags and returns
// the failures as user-facing messages.
func Validate(input any) *Result {
	result := &Result{}

	err := validate.Struct(input)
	if err == nil {
		return result
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		result.Errors = append(result.Errors, FieldError{Message: "Invalid input."})
		return result
	}

	for _, fe := range verrs {
		result.Errors = append(result.Errors, FieldError{
			Field:   fe.Field(),
			Message: messageFor(fe),
		})
	}
	return result
}

func messageFor(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "email":
		return "A valid email address is required."
	case "role":
		return fmt.Sprintf("%s must be one of: %s.", label, strings.Join(AllowedRolesList(), ", "))
	case "sectionkind":
		return label + " must be a recognized section type."
	case "blockkind":
		return label + " must be a recognized content type."
	case "eventkind":
		return label + " must be a recognized event type."
	case "httpurl":
		return label + " must be a valid http or https URL."
	case "objectid":
		return label + " must be a valid ID."
	default:
		return label + " is invalid."
	}
}
