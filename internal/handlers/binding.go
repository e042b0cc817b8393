package handlers

import (
	"regexp"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// usernamePattern allows lowercase/uppercase letters, digits, dots,
// underscores and hyphens, 3 to 30 characters.
var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9._-]{3,30}$`)

// registerCustomValidations adds the username format rule to gin's binding
// validator. Safe to call more than once.
func registerCustomValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("username", func(fl validator.FieldLevel) bool {
			return usernamePattern.MatchString(fl.Field().String())
		})
	}
}
