package middleware

import (
	"sync"

	"github.com/Payphone-Digital/eventhub/pkg/validation"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var registerOnce sync.Once

// RegisterValidators installs the custom rules (phone, flexurl, future) and
// JSON field naming on gin's binding validator. Safe to call repeatedly.
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			err = validation.RegisterRules(v)
		}
	})
	return err
}
