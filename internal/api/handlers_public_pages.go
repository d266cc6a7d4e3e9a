package api

import "github.com/gofiber/fiber/v2"

type homeFeature struct {
	Key  string
	Icon string
}

var homeFeatures = []homeFeature{
	{Key: "track", Icon: "📈"},
	{Key: "research", Icon: "🔬"},
	{Key: "community", Icon: "💜"},
	{Key: "transparency", Icon: "🛡️"},
}

// communityPrompts are the sections announced on the placeholder page.
var communityPrompts = []string{"dismissed", "treatment", "research"}

func (handler *Handler) ShowHome(c *fiber.Ctx) error {
	return handler.render(c, "home", fiber.Map{
		"Title":    localizedPageTitle(currentMessages(c), "meta.title.home"),
		"Features": homeFeatures,
	})
}

func (handler *Handler) ShowCommunity(c *fiber.Ctx) error {
	return handler.render(c, "community", fiber.Map{
		"Title":   localizedPageTitle(currentMessages(c), "meta.title.community"),
		"Prompts": communityPrompts,
	})
}

func (handler *Handler) SetLanguage(c *fiber.Ctx) error {
	language := handler.i18n.NormalizeLanguage(c.Params("lang"))
	handler.setLanguageCookie(c, language)

	nextPath := sanitizeRedirectPath(c.Query("next"), "/")
	if isHTMX(c) {
		c.Set("HX-Redirect", nextPath)
		return c.SendStatus(fiber.StatusOK)
	}
	return c.Redirect(nextPath, fiber.StatusSeeOther)
}
