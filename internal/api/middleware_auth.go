package api

import (
	"errors"
	"fmt"
	"strings"

	"github.com/artemis-health/artemis/internal/models"
	"github.com/artemis-health/artemis/internal/services"
	"github.com/artemis-health/artemis/internal/session"
	"github.com/gofiber/fiber/v2"
)

// AuthRequired resolves the auth cookie. API callers get 401, pages are
// redirected to the login page; a stale cookie is cleared either way.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	user, identity, err := handler.authenticateRequest(c)
	if err != nil {
		if c.Cookies(authCookieName) != "" {
			handler.clearAuthCookie(c)
		}
		if strings.HasPrefix(c.Path(), "/api/") {
			return apiError(c, fiber.StatusUnauthorized, "unauthorized")
		}
		if isHTMX(c) {
			c.Set("HX-Redirect", "/auth/login")
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}

	c.Locals(contextUserKey, user)
	c.Locals(contextSessionKey, identity.SessionID)
	return c.Next()
}

// OptionalUser attaches the signed-in user when there is one, so public pages
// can render the signed-in navigation.
func (handler *Handler) OptionalUser(c *fiber.Ctx) error {
	if c.Cookies(authCookieName) == "" {
		return c.Next()
	}
	if user, identity, err := handler.authenticateRequest(c); err == nil {
		c.Locals(contextUserKey, user)
		c.Locals(contextSessionKey, identity.SessionID)
	}
	return c.Next()
}

// authenticateRequest reports every failure as session.ErrUnauthenticated,
// including a failed user lookup.
func (handler *Handler) authenticateRequest(c *fiber.Ctx) (*models.User, session.Identity, error) {
	identity, err := handler.sessions.Resolve(c.UserContext(), c.Cookies(authCookieName))
	if err != nil {
		return nil, session.Identity{}, err
	}

	user, err := handler.auth.FindByID(c.UserContext(), identity.UserID)
	if err != nil {
		if !errors.Is(err, services.ErrReadFailure) {
			err = fmt.Errorf("%w: %v", services.ErrReadFailure, err)
		}
		handler.requestLogger(c).WithError(err).Warn("load session user failed")
		return nil, session.Identity{}, fmt.Errorf("%w: %v", session.ErrUnauthenticated, err)
	}
	return &user, identity, nil
}
