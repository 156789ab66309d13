package handlers

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// referralCodeRule accepts uppercase alphanumeric referral codes, the shape
// produced at user creation.
func referralCodeRule(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	for _, r := range code {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return code != ""
}

// RegisterValidations installs custom binding rules on gin's validator
// engine. Call once before routes are registered.
func RegisterValidations() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterValidation("referralcode", referralCodeRule)
	}
}
