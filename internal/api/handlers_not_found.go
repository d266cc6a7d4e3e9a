package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// NotFound is the catch-all route. API callers get JSON, HTMX swaps get a
// fragment and browsers get the full page.
func (handler *Handler) NotFound(c *fiber.Ctx) error {
	if strings.HasPrefix(c.Path(), "/api/") || acceptsJSON(c) {
		return apiError(c, fiber.StatusNotFound, errCodeNotFound)
	}

	messages := currentMessages(c)
	c.Status(fiber.StatusNotFound)
	if isHTMX(c) {
		c.Type("html", "utf-8")
		return c.SendString(statusFragment(translateMessage(messages, "not_found.title")))
	}

	home := "/"
	if _, signedIn := currentUser(c); signedIn {
		home = "/dashboard"
	}
	return handler.render(c, "not_found", fiber.Map{
		"Title":       localizedPageTitle(messages, "meta.title.not_found"),
		"PrimaryPath": home,
	})
}
