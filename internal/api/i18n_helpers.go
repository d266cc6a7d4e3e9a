package api

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
)

func translateMessage(messages map[string]string, key string) string {
	if key == "" {
		return ""
	}
	if messages != nil {
		if value, ok := messages[key]; ok && strings.TrimSpace(value) != "" {
			return value
		}
	}
	return key
}

func translateMessagef(messages map[string]string, key string, args ...any) string {
	return fmt.Sprintf(translateMessage(messages, key), args...)
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return strings.TrimSpace(language)
}

func currentMessages(c *fiber.Ctx) map[string]string {
	messages, ok := c.Locals(contextMessagesKey).(map[string]string)
	if !ok || messages == nil {
		return map[string]string{}
	}
	return messages
}

func localizedPageTitle(messages map[string]string, key string) string {
	title := translateMessage(messages, key)
	if title == key || strings.TrimSpace(title) == "" {
		return translateMessage(messages, "meta.title.default")
	}
	return title
}

// withTemplateDefaults fills the layout fields a handler did not set itself.
func (handler *Handler) withTemplateDefaults(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if data == nil {
		data = fiber.Map{}
	}

	messages := currentMessages(c)
	language := currentLanguage(c)
	if language == "" {
		language = handler.i18n.DefaultLanguage()
	}
	var user any
	if current, ok := currentUser(c); ok {
		user = current
	}

	defaults := fiber.Map{
		"Messages":    messages,
		"Lang":        language,
		"Languages":   handler.i18n.SupportedLanguages(),
		"Title":       localizedPageTitle(messages, "meta.title.default"),
		"CurrentPath": currentPathWithQuery(c),
		"CSRFToken":   csrfToken(c),
		"CurrentUser": user,
	}
	for key, value := range defaults {
		if _, set := data[key]; !set {
			data[key] = value
		}
	}
	return data
}

func currentPathWithQuery(c *fiber.Ctx) string {
	path := c.Path()
	if query := string(c.Request().URI().QueryString()); query != "" {
		path += "?" + query
	}
	return path
}
