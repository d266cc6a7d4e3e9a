package api

import (
	"github.com/artemis-health/artemis/internal/models"
	"github.com/gofiber/fiber/v2"
)

const (
	authCookieName     = "artemis_auth"
	languageCookieName = "artemis_lang"
	flashCookieName    = "artemis_flash"
	contextUserKey     = "current_user"
	contextSessionKey  = "current_session"
	contextLanguageKey = "current_language"
	contextMessagesKey = "current_messages"
)

func currentUser(c *fiber.Ctx) (*models.User, bool) {
	user, ok := c.Locals(contextUserKey).(*models.User)
	return user, ok && user != nil
}

func currentSessionID(c *fiber.Ctx) string {
	sessionID, _ := c.Locals(contextSessionKey).(string)
	return sessionID
}
