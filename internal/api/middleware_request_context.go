package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// RequestContext gives every request a deadline derived from the server's
// base context. It is cancelled as soon as the handler chain returns.
func (handler *Handler) RequestContext(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(handler.baseContext, handler.requestTimeout)
	defer cancel()

	c.SetUserContext(ctx)
	return c.Next()
}

func (handler *Handler) requestLogger(c *fiber.Ctx) *logrus.Entry {
	fields := logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}
	if user, ok := currentUser(c); ok {
		fields["user_id"] = user.ID
	}
	return handler.log.WithFields(fields)
}
