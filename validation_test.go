package authgate_test

import (
	"testing"

	"github.com/halcyonsoft/authgate"
	"github.com/stretchr/testify/assert"
)

func TestRegisterRequest_Validate(t *testing.T) {
	valid := authgate.RegisterRequest{
		Name:     "Ann",
		Email:    "ann@example.com",
		Password: "Secr3t!pass",
	}

	t.Run("accepts a valid payload", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("rejects missing name", func(t *testing.T) {
		r := valid
		r.Name = ""
		assert.Error(t, r.Validate())
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		r := valid
		r.Email = "not-an-email"
		assert.Error(t, r.Validate())
	})

	t.Run("rejects short password", func(t *testing.T) {
		r := valid
		r.Password = "short"
		assert.Error(t, r.Validate())
	})

	t.Run("rejects password containing the email local part", func(t *testing.T) {
		r := authgate.RegisterRequest{
			Name:     "Ann",
			Email:    "annika@example.com",
			Password: "my-Annika-pass",
		}
		assert.Error(t, r.Validate())
	})

	t.Run("short local parts are not matched against the password", func(t *testing.T) {
		r := authgate.RegisterRequest{
			Name:     "Ann",
			Email:    "an@example.com",
			Password: "bananas-pass",
		}
		assert.NoError(t, r.Validate())
	})
}

func TestLoginRequest_Validate(t *testing.T) {
	t.Run("accepts a valid payload", func(t *testing.T) {
		r := authgate.LoginRequest{Email: "ann@example.com", Password: "whatever"}
		assert.NoError(t, r.Validate())
	})

	t.Run("rejects missing password", func(t *testing.T) {
		r := authgate.LoginRequest{Email: "ann@example.com"}
		assert.Error(t, r.Validate())
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		r := authgate.LoginRequest{Email: "nope", Password: "whatever"}
		assert.Error(t, r.Validate())
	})
}

func TestForgotPasswordRequest_Validate(t *testing.T) {
	assert.NoError(t, authgate.ForgotPasswordRequest{Email: "ann@example.com"}.Validate())
	assert.Error(t, authgate.ForgotPasswordRequest{}.Validate())
	assert.Error(t, authgate.ForgotPasswordRequest{Email: "nope"}.Validate())
}

func TestResetPasswordRequest_Validate(t *testing.T) {
	t.Run("accepts a valid payload", func(t *testing.T) {
		r := authgate.ResetPasswordRequest{Token: "reset-token", Password: "NewSecr3t!"}
		assert.NoError(t, r.Validate())
	})

	t.Run("rejects missing token", func(t *testing.T) {
		r := authgate.ResetPasswordRequest{Password: "NewSecr3t!"}
		assert.Error(t, r.Validate())
	})

	t.Run("rejects short password", func(t *testing.T) {
		r := authgate.ResetPasswordRequest{Token: "reset-token", Password: "short"}
		assert.Error(t, r.Validate())
	})
}
