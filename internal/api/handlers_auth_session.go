package api

import (
	"errors"
	"strings"

	"github.com/artemis-health/artemis/internal/services"
	"github.com/gofiber/fiber/v2"
)

type credentialsInput struct {
	Email           string `json:"email" form:"email"`
	Password        string `json:"password" form:"password"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password"`
	FullName        string `json:"full_name" form:"full_name"`
	RememberMe      bool   `json:"remember_me" form:"remember_me"`
}

func parseCredentials(c *fiber.Ctx) (credentialsInput, error) {
	input := credentialsInput{}
	if sendsJSON(c) {
		if err := c.BodyParser(&input); err != nil {
			return credentialsInput{}, err
		}
		return input, nil
	}
	input.Email = c.FormValue("email")
	input.Password = c.FormValue("password")
	input.ConfirmPassword = c.FormValue("confirm_password")
	input.FullName = c.FormValue("full_name")
	input.RememberMe = parseBoolValue(c.FormValue("remember_me"))
	return input, nil
}

func (handler *Handler) Signup(c *fiber.Ctx) error {
	input, err := parseCredentials(c)
	if err != nil {
		return handler.respondAuthError(c, fiber.StatusBadRequest, errCodeInvalidInput)
	}

	user, err := handler.auth.Signup(c.UserContext(), services.SignupInput{
		Email:           input.Email,
		Password:        input.Password,
		ConfirmPassword: input.ConfirmPassword,
		FullName:        input.FullName,
	})
	if err != nil {
		status, code := signupErrorCode(input.Email, err)
		if status >= fiber.StatusInternalServerError {
			handler.requestLogger(c).WithError(err).Error("signup failed")
		}
		return handler.respondAuthError(c, status, code)
	}

	token, err := handler.sessions.Issue(c.UserContext(), user.ID, false)
	if err != nil {
		handler.requestLogger(c).WithError(err).WithField("user_id", user.ID).Error("issue session after signup failed")
		return apiError(c, fiber.StatusInternalServerError, errCodeInternal)
	}
	handler.setAuthCookie(c, token)

	if acceptsJSON(c) && !isHTMX(c) {
		fullName, _ := services.NormalizeFullName(input.FullName)
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"id":        user.ID,
			"email":     user.Email,
			"full_name": fullName,
		})
	}
	return redirectOrJSON(c, "/dashboard")
}

func (handler *Handler) Login(c *fiber.Ctx) error {
	input, err := parseCredentials(c)
	if err != nil {
		return handler.respondAuthError(c, fiber.StatusBadRequest, errCodeInvalidInput)
	}

	now := handler.now()
	limiterKey := loginLimiterKey(c, input.Email)
	if handler.loginLimiter.blocked(limiterKey, now) {
		return handler.respondAuthError(c, fiber.StatusTooManyRequests, errCodeTooManyAttempts)
	}

	user, err := handler.auth.Authenticate(c.UserContext(), input.Email, input.Password)
	if errors.Is(err, services.ErrAuthCredentialsInvalid) {
		handler.loginLimiter.recordFailure(limiterKey, now)
		return handler.respondAuthError(c, fiber.StatusUnauthorized, errCodeInvalidCredentials)
	}
	if err != nil {
		handler.requestLogger(c).WithError(err).Error("authenticate failed")
		return handler.respondAuthError(c, fiber.StatusInternalServerError, errCodeInternal)
	}
	handler.loginLimiter.clear(limiterKey)

	token, err := handler.sessions.Issue(c.UserContext(), user.ID, input.RememberMe)
	if err != nil {
		handler.requestLogger(c).WithError(err).WithField("user_id", user.ID).Error("issue session failed")
		return apiError(c, fiber.StatusInternalServerError, errCodeInternal)
	}
	handler.setAuthCookie(c, token)
	return redirectOrJSON(c, "/dashboard")
}

// Logout works with or without a valid session so a stale cookie can always be dropped.
func (handler *Handler) Logout(c *fiber.Ctx) error {
	if sessionID := currentSessionID(c); sessionID != "" {
		if err := handler.sessions.Invalidate(c.UserContext(), sessionID); err != nil {
			handler.requestLogger(c).WithError(err).WithField("session_id", sessionID).Warn("invalidate session failed")
		}
	}
	handler.clearAuthCookie(c)
	return redirectOrJSON(c, "/")
}

func (handler *Handler) Me(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, errCodeUnauthorized)
	}

	profile, err := handler.profiles.Profile(c.UserContext(), user.ID)
	if err != nil {
		handler.requestLogger(c).WithError(err).Warn("load profile failed")
	}
	return c.JSON(fiber.Map{
		"id":        user.ID,
		"email":     user.Email,
		"full_name": profile.FullName,
	})
}

// respondAuthError redirects plain form posts back to their page with a flash
// message; JSON and HTMX callers get apiError.
func (handler *Handler) respondAuthError(c *fiber.Ctx, status int, code string) error {
	if !strings.HasPrefix(c.Path(), "/api/auth/") || acceptsJSON(c) || isHTMX(c) || sendsJSON(c) {
		return apiError(c, status, code)
	}

	flash := FlashPayload{AuthError: code}
	switch c.Path() {
	case "/api/auth/signup":
		flash.SignupEmail = c.FormValue("email")
		flash.SignupFullName = c.FormValue("full_name")
		handler.setFlashCookie(c, flash)
		return c.Redirect("/auth/signup", fiber.StatusSeeOther)
	default:
		flash.LoginEmail = c.FormValue("email")
		handler.setFlashCookie(c, flash)
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
}
