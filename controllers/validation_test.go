package controllers

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
)

func TestStrongPassword(t *testing.T) {
	v := validator.New()
	_ = v.RegisterValidation("strongpwd", strongPassword)

	check := func(pw string) error {
		return v.Var(pw, "strongpwd")
	}

	assert.NoError(t, check("Abcdef12"))
	assert.NoError(t, check("xK9mQp2zLt"))

	assert.Error(t, check("Abc12"), "too short")
	assert.Error(t, check("abcdef12"), "no uppercase")
	assert.Error(t, check("ABCDEF12"), "no lowercase")
	assert.Error(t, check("Abcdefgh"), "no digit")
	assert.Error(t, check(""))
}

func TestParseFormDate(t *testing.T) {
	got, err := parseFormDate("2024-01-15")
	assert.NoError(t, err)
	assert.Equal(t, "2024-01-15T00:00:00Z", got.Format("2006-01-02T15:04:05Z07:00"))

	got, err = parseFormDate("2024-01-15T10:30:00+08:00")
	assert.NoError(t, err)
	assert.Equal(t, "2024-01-15T02:30:00Z", got.Format("2006-01-02T15:04:05Z07:00"))

	_, err = parseFormDate("15/01/2024")
	assert.Error(t, err)
	_, err = parseFormDate("")
	assert.Error(t, err)
}
