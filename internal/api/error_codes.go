package api

import (
	"errors"
	"strings"

	"github.com/artemis-health/artemis/internal/services"
	"github.com/gofiber/fiber/v2"
)

// Error codes double as the "error" field of JSON responses.
const (
	errCodeInvalidInput       = "invalid input"
	errCodeInvalidCredentials = "invalid credentials"
	errCodeInvalidEmail       = "invalid email"
	errCodeEmailTaken         = "email already exists"
	errCodeWeakPassword       = "weak password"
	errCodePasswordTooLong    = "password too long"
	errCodePasswordMismatch   = "password mismatch"
	errCodeFullNameTooLong    = "full name too long"
	errCodeTooManyAttempts    = "too many login attempts"
	errCodeUnauthorized       = "unauthorized"
	errCodeForbidden          = "forbidden"
	errCodeNotFound           = "not found"
	errCodeInternal           = "internal error"
)

var errorKeys = map[string]string{
	errCodeInvalidInput:       "error.invalid_input",
	errCodeInvalidCredentials: "auth.error.invalid_credentials",
	errCodeInvalidEmail:       "auth.error.invalid_email",
	errCodeEmailTaken:         "auth.error.email_taken",
	errCodeWeakPassword:       "auth.error.weak_password",
	errCodePasswordTooLong:    "auth.error.password_too_long",
	errCodePasswordMismatch:   "auth.error.password_mismatch",
	errCodeFullNameTooLong:    "auth.error.full_name_too_long",
	errCodeTooManyAttempts:    "auth.error.rate_limited",
	errCodeUnauthorized:       "error.unauthorized",
	errCodeForbidden:          "error.forbidden",
	errCodeNotFound:           "error.not_found",
	errCodeInternal:           "error.internal",
}

func errorTranslationKey(message string) string {
	key, ok := errorKeys[strings.ToLower(strings.TrimSpace(message))]
	if !ok {
		return ""
	}
	return key
}

// signupErrorCode maps a Signup failure to a status and an error code.
func signupErrorCode(emailRaw string, err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrAuthCredentialsInvalid):
		if services.NormalizeAuthEmail(emailRaw) == "" {
			return fiber.StatusBadRequest, errCodeInvalidEmail
		}
		return fiber.StatusBadRequest, errCodeWeakPassword
	case errors.Is(err, services.ErrWeakPassword):
		return fiber.StatusBadRequest, errCodeWeakPassword
	case errors.Is(err, services.ErrPasswordTooLong):
		return fiber.StatusBadRequest, errCodePasswordTooLong
	case errors.Is(err, services.ErrPasswordMismatch):
		return fiber.StatusBadRequest, errCodePasswordMismatch
	case errors.Is(err, services.ErrFullNameTooLong):
		return fiber.StatusBadRequest, errCodeFullNameTooLong
	case errors.Is(err, services.ErrEmailTaken):
		return fiber.StatusConflict, errCodeEmailTaken
	default:
		return fiber.StatusInternalServerError, errCodeInternal
	}
}
