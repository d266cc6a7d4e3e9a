package api

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// redirectOrJSON finishes a successful form or API action for whichever
// client sent it.
func redirectOrJSON(c *fiber.Ctx, path string) error {
	switch {
	case isHTMX(c):
		c.Set("HX-Redirect", path)
		return c.SendStatus(fiber.StatusOK)
	case acceptsJSON(c):
		return c.JSON(fiber.Map{"ok": true})
	default:
		return c.Redirect(path, fiber.StatusSeeOther)
	}
}

// apiError answers HTMX with a status fragment and everyone else with JSON.
func apiError(c *fiber.Ctx, status int, message string) error {
	if !isHTMX(c) {
		return c.Status(status).JSON(fiber.Map{"error": message})
	}
	c.Type("html", "utf-8")
	return c.Status(status).SendString(statusFragment(localizedErrorMessage(c, message)))
}

// localizedErrorMessage swaps a known error code for its translation and
// passes anything else through.
func localizedErrorMessage(c *fiber.Ctx, message string) string {
	key := errorTranslationKey(message)
	if key == "" {
		return message
	}
	if localized := translateMessage(currentMessages(c), key); localized != key {
		return localized
	}
	return message
}

func statusFragment(message string) string {
	return `<div class="status-error">` + template.HTMLEscapeString(message) + `</div>`
}

func acceptsJSON(c *fiber.Ctx) bool {
	return strings.Contains(strings.ToLower(c.Get(fiber.HeaderAccept)), fiber.MIMEApplicationJSON)
}

func sendsJSON(c *fiber.Ctx) bool {
	return strings.HasPrefix(strings.ToLower(c.Get(fiber.HeaderContentType)), fiber.MIMEApplicationJSON)
}

func isHTMX(c *fiber.Ctx) bool {
	return strings.EqualFold(c.Get("HX-Request"), "true")
}

func csrfToken(c *fiber.Ctx) string {
	token, _ := c.Locals("csrf").(string)
	return token
}

// sanitizeRedirectPath only allows same-site absolute paths.
func sanitizeRedirectPath(raw string, fallback string) string {
	candidate := strings.TrimSpace(raw)
	if !strings.HasPrefix(candidate, "/") || strings.HasPrefix(candidate, "//") || strings.HasPrefix(candidate, "/\\") {
		return fallback
	}
	parsed, err := url.Parse(candidate)
	if err != nil || parsed.IsAbs() || parsed.Host != "" {
		return fallback
	}
	return candidate
}

func parseBoolValue(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes":
		return true
	}
	return false
}
