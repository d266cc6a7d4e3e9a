package api

import (
	"github.com/gofiber/fiber/v2"
)

// LanguageMiddleware resolves the request language. A stored preference wins
// over Accept-Language, and the cookie is rewritten whenever it is missing or
// holds an unsupported value.
func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	stored := c.Cookies(languageCookieName)

	var language string
	if stored != "" {
		language = handler.i18n.NormalizeLanguage(stored)
	} else {
		language = handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
	}
	if stored != language {
		handler.setLanguageCookie(c, language)
	}

	c.Locals(contextLanguageKey, language)
	c.Locals(contextMessagesKey, handler.i18n.Messages(language))
	return c.Next()
}
