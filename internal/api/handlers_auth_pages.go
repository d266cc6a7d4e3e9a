package api

import "github.com/gofiber/fiber/v2"

func (handler *Handler) ShowLoginPage(c *fiber.Ctx) error {
	if _, ok := currentUser(c); ok {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	flash := handler.popFlashCookie(c)
	messages := currentMessages(c)
	return handler.render(c, "login", fiber.Map{
		"Title":    localizedPageTitle(messages, "meta.title.login"),
		"ErrorKey": authErrorKey(flash.AuthError),
		"Email":    flash.LoginEmail,
	})
}

func (handler *Handler) ShowSignupPage(c *fiber.Ctx) error {
	if _, ok := currentUser(c); ok {
		return c.Redirect("/dashboard", fiber.StatusSeeOther)
	}

	flash := handler.popFlashCookie(c)
	messages := currentMessages(c)
	return handler.render(c, "signup", fiber.Map{
		"Title":    localizedPageTitle(messages, "meta.title.signup"),
		"ErrorKey": authErrorKey(flash.AuthError),
		"Email":    flash.SignupEmail,
		"FullName": flash.SignupFullName,
	})
}

func authErrorKey(code string) string {
	if code == "" {
		return ""
	}
	if key := errorTranslationKey(code); key != "" {
		return key
	}
	return "auth.error.generic"
}
