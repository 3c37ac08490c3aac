// controllers/validation.go
package controllers

import (
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators 挂到 gin 的 binding 引擎上，启动时调用一次。
func RegisterValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("strongpwd", strongPassword)
	}
}

// strongPassword ≥8 位且同时包含大写/小写/数字。
func strongPassword(fl validator.FieldLevel) bool {
	pw := fl.Field().String()
	if len(pw) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

func passwordRuleMessage() string {
	return "password must be at least 8 characters with an uppercase letter, a lowercase letter and a number"
}
