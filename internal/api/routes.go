package api

import "github.com/gofiber/fiber/v2"

func RegisterRoutes(app *fiber.App, handler *Handler) {
	registerPageRoutes(app, handler)
	registerAPIRoutes(app, handler)
	app.Use(handler.OptionalUser, handler.NotFound)
}

func registerPageRoutes(app *fiber.App, handler *Handler) {
	app.Get("/healthz", handler.Health)
	app.Get("/favicon.ico", sendNoContent)
	app.Get("/lang/:lang", handler.SetLanguage)
	app.Post("/lang/:lang", handler.SetLanguage)

	app.Get("/", handler.OptionalUser, handler.ShowHome)
	app.Get("/auth/login", handler.OptionalUser, handler.ShowLoginPage)
	app.Get("/auth/signup", handler.OptionalUser, handler.ShowSignupPage)
	app.Get("/dashboard", handler.AuthRequired, handler.ShowDashboard)
	app.Get("/track", handler.AuthRequired, handler.ShowTrack)
	app.Post("/track", handler.AuthRequired, handler.SubmitTrack)
	app.Get("/community", handler.AuthRequired, handler.ShowCommunity)
}

func registerAPIRoutes(app *fiber.App, handler *Handler) {
	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/signup", handler.Signup)
	auth.Post("/login", handler.Login)
	auth.Post("/logout", handler.OptionalUser, handler.Logout)
	auth.Get("/me", handler.AuthRequired, handler.Me)
	auth.Get("/events", handler.AuthRequired, handler.Events)

	entries := api.Group("/entries", handler.AuthRequired)
	entries.Get("", handler.ListEntries)
	entries.Post("", handler.CreateEntry)

	api.Get("/stats", handler.AuthRequired, handler.GetStats)

	profile := api.Group("/profile", handler.AuthRequired)
	profile.Get("", handler.GetProfile)
	profile.Put("", handler.UpdateProfile)

	export := api.Group("/export", handler.AuthRequired)
	export.Get("/csv", handler.ExportCSV)
	export.Get("/json", handler.ExportJSON)
}

func sendNoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}
