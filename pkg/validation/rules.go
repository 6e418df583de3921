package validation

import (
	"net/url"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/Payphone-Digital/eventhub/internal/constants"
	"github.com/go-playground/validator/v10"
)

var phonePattern = regexp.MustCompile(constants.PhonePattern)

// RegisterRules installs the custom tags used by the request DTOs and makes
// error field names follow the JSON tags.
func RegisterRules(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	if err := v.RegisterValidation("phone", validatePhone); err != nil {
		return err
	}
	if err := v.RegisterValidation("flexurl", validateFlexURL); err != nil {
		return err
	}
	return v.RegisterValidation("future", validateFuture)
}

// New returns a validator with the custom rules installed.
func New() *validator.Validate {
	v := validator.New()
	if err := RegisterRules(v); err != nil {
		panic(err)
	}
	return v
}

func validatePhone(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value == "" || phonePattern.MatchString(value)
}

// validateFlexURL accepts absolute http(s) URLs and server-relative paths.
func validateFlexURL(fl validator.FieldLevel) bool {
	return IsFlexURL(fl.Field().String())
}

func IsFlexURL(value string) bool {
	if value == "" || strings.HasPrefix(value, "/") {
		return true
	}
	if !strings.HasPrefix(value, "http://") && !strings.HasPrefix(value, "https://") {
		return false
	}
	u, err := url.Parse(value)
	return err == nil && u.Host != ""
}

func validateFuture(fl validator.FieldLevel) bool {
	t, ok := fl.Field().Interface().(time.Time)
	if !ok {
		return false
	}
	return t.After(time.Now())
}
