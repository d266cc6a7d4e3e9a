package api

import (
	"time"

	"github.com/artemis-health/artemis/internal/session"
	"github.com/gofiber/fiber/v2"
)

const languageCookieTTL = 365 * 24 * time.Hour

// baseCookie fills the attributes every Artemis cookie shares.
func (handler *Handler) baseCookie(name string, value string, httpOnly bool) *fiber.Cookie {
	return &fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HTTPOnly: httpOnly,
		Secure:   handler.cookieSecure,
		SameSite: fiber.CookieSameSiteLaxMode,
	}
}

// setAuthCookie stores the sealed session token. Tokens without remember-me
// become browser-session cookies.
func (handler *Handler) setAuthCookie(c *fiber.Ctx, token session.Token) {
	cookie := handler.baseCookie(authCookieName, token.Value, true)
	if token.Persistent {
		cookie.Expires = token.ExpiresAt
	}
	c.Cookie(cookie)
}

func (handler *Handler) clearAuthCookie(c *fiber.Ctx) {
	cookie := handler.baseCookie(authCookieName, "", true)
	cookie.Expires = handler.now().Add(-time.Hour)
	c.Cookie(cookie)
}

// The language cookie is readable by scripts.
func (handler *Handler) setLanguageCookie(c *fiber.Ctx, language string) {
	cookie := handler.baseCookie(languageCookieName, handler.i18n.NormalizeLanguage(language), false)
	cookie.Expires = handler.now().Add(languageCookieTTL)
	c.Cookie(cookie)
}
