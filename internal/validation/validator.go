// Package validation provides custom validators for the application
package validation

import (
	"authgate/internal/auth"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// Initialize registers all custom validators
func Initialize() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		err := v.RegisterValidation("strongpassword", validateStrongPassword)
		if err != nil {
			panic(err)
		}
	}
}

// validateStrongPassword rejects passwords failing any strength rule. The
// service layer re-checks and reports the individual reasons.
func validateStrongPassword(fl validator.FieldLevel) bool {
	return len(auth.CheckPasswordStrength(fl.Field().String())) == 0
}
