// Package validation holds the field rules shared by the engine and the HTTP
// binding layer. The engine validates inputs itself (operations are callable
// without HTTP); the gin binding reuses the same rules for early rejection.
package validation

import (
	"encoding/json"
	"errors"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var (
	mobileRe = regexp.MustCompile(`^\d{10}$`)
	emailRe  = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// ValidateMobile reports whether m is exactly 10 ASCII digits.
func ValidateMobile(m string) bool { return mobileRe.MatchString(m) }

// ValidateEmail reports whether e looks like a standard address.
func ValidateEmail(e string) bool { return emailRe.MatchString(e) }

// Init configures the global validator used by Gin's binding.
// - Uses JSON tag names in errors.
// - Registers the mobile rule and a password-length alias.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
			return ValidateMobile(fl.Field().String())
		})
		v.RegisterAlias("pwd", "min=4") // password minimum length
	}
}

// ToDetails converts validation/binding errors into a map[field]message
// suitable for API error.details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	// Invalid JSON payloads
	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	if errors.As(err, &se) || errors.As(err, &ute) {
		return map[string]string{"payload": "invalid json"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}

	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "mobile":
		return "must be a valid 10-digit mobile number"
	case "min", "pwd":
		if fe.Kind() == reflect.String {
			return "is too short"
		}
		return "is too small"
	case "max":
		if fe.Kind() == reflect.String {
			return "is too long"
		}
		return "is too large"
	case "eqfield":
		return "must match " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "is invalid"
	}
}
