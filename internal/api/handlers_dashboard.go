package api

import (
	"github.com/gofiber/fiber/v2"
)

// ShowDashboard never redirects on a failed read: the dashboard degrades to
// the fallback greeting and the empty state.
func (handler *Handler) ShowDashboard(c *fiber.Ctx) error {
	user, ok := currentUser(c)
	if !ok {
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}

	dashboard, err := handler.dashboard.Load(c.UserContext(), user.ID)
	if err != nil {
		handler.requestLogger(c).WithError(err).Error("load dashboard failed")
	}

	messages := currentMessages(c)
	return handler.render(c, "dashboard", fiber.Map{
		"Title":     localizedPageTitle(messages, "meta.title.dashboard"),
		"Greeting":  translateMessagef(messages, "dashboard.welcome", dashboard.Greeting),
		"Dashboard": dashboard,
	})
}
