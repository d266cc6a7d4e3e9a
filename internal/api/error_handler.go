package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

var statusErrorCodes = map[int]string{
	fiber.StatusBadRequest:   errCodeInvalidInput,
	fiber.StatusUnauthorized: errCodeUnauthorized,
	fiber.StatusForbidden:    errCodeForbidden,
	fiber.StatusNotFound:     errCodeNotFound,
}

// ErrorHandler answers errors that escape a handler, including CSRF rejections.
func (handler *Handler) ErrorHandler(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		status = fiberErr.Code
	}

	logger := handler.requestLogger(c).WithError(err).WithField("status", status)
	if status >= fiber.StatusInternalServerError {
		logger.Error("request failed")
	} else {
		logger.Debug("request rejected")
	}

	code, ok := statusErrorCodes[status]
	if !ok {
		code = errCodeInternal
		if status < fiber.StatusInternalServerError {
			code = strings.ToLower(http.StatusText(status))
		}
	}
	if strings.HasPrefix(c.Path(), "/api/") || acceptsJSON(c) || isHTMX(c) {
		return apiError(c, status, code)
	}

	message := translateMessage(currentMessages(c), errorTranslationKey(code))
	if message == "" {
		message = http.StatusText(status)
	}
	c.Type("txt", "utf-8")
	return c.Status(status).SendString(message)
}
