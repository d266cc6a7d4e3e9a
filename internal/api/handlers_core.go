package api

import (
	"bytes"
	"html/template"

	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) Health(c *fiber.Ctx) error {
	return c.SendString("ok")
}

// render executes a full page through the shared "base" layout.
func (handler *Handler) render(c *fiber.Ctx, name string, data fiber.Map) error {
	return handler.executeTemplate(c, handler.templates[name], name, "base", data)
}

// renderPartial executes a single fragment, used for HTMX swaps.
func (handler *Handler) renderPartial(c *fiber.Ctx, name string, data fiber.Map) error {
	return handler.executeTemplate(c, handler.partials[name], name, name, data)
}

func (handler *Handler) executeTemplate(c *fiber.Ctx, tmpl *template.Template, name string, entry string, data fiber.Map) error {
	logger := handler.requestLogger(c).WithField("template", name)
	if tmpl == nil {
		logger.Error("template is not registered")
		return c.Status(fiber.StatusInternalServerError).SendString("template not found")
	}

	var output bytes.Buffer
	if err := tmpl.ExecuteTemplate(&output, entry, handler.withTemplateDefaults(c, data)); err != nil {
		logger.WithError(err).Error("render template failed")
		return c.Status(fiber.StatusInternalServerError).SendString("failed to render template")
	}
	c.Type("html", "utf-8")
	return c.Send(output.Bytes())
}
