package dto

import (
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// courseCodeValidator accepts codes like "CSC-601": uppercase letters,
// digits and dashes only.
func courseCodeValidator(fl validator.FieldLevel) bool {
	code := fl.Field().String()
	if code == "" {
		return false
	}
	for _, char := range code {
		if !((char >= 'A' && char <= 'Z') || (char >= '0' && char <= '9') || char == '-') {
			return false
		}
	}
	return true
}

// RegisterValidators installs custom validations on gin's binding engine.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	return v.RegisterValidation("coursecode", courseCodeValidator)
}
