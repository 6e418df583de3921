package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// DefaultMessage renders a readable message for one failed rule. Field names
// are the JSON names registered in RegisterRules.
func DefaultMessage(e validator.FieldError) string {
	field := e.Field()
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "email":
		return fmt.Sprintf("%s must be a valid email", field)
	case "min":
		if isNumeric(e) {
			return fmt.Sprintf("%s must be greater than or equal to %s", field, param)
		}
		return fmt.Sprintf("%s length must be at least %s characters long", field, param)
	case "max":
		if isNumeric(e) {
			return fmt.Sprintf("%s must be less than or equal to %s", field, param)
		}
		return fmt.Sprintf("%s length must be less than or equal to %s characters long", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, param)
	case "alphanum":
		return fmt.Sprintf("%s must only contain alpha-numeric characters", field)
	case "url", "flexurl":
		return fmt.Sprintf("%s must be a valid uri", field)
	case "phone":
		return fmt.Sprintf("%s fails to match the required pattern", field)
	case "eqfield":
		return fmt.Sprintf("%s must match %s", field, lowerFirst(param))
	case "uuid":
		return fmt.Sprintf("%s must be a valid GUID", field)
	case "future":
		return fmt.Sprintf("%s must be greater than or equal to now", field)
	case "dive":
		return fmt.Sprintf("%s contains an invalid item", field)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// Messages flattens a validator error into one message per failed field.
func Messages(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make([]string, 0, len(verrs))
	for _, e := range verrs {
		out = append(out, DefaultMessage(e))
	}
	return out
}

func isNumeric(e validator.FieldError) bool {
	switch e.Kind().String() {
	case "int", "int8", "int16", "int32", "int64",
		"uint", "uint8", "uint16", "uint32", "uint64",
		"float32", "float64":
		return true
	}
	return false
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
