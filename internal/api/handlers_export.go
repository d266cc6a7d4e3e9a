package api

import (
	"fmt"
	"time"

	"github.com/artemis-health/artemis/internal/services"
	"github.com/gofiber/fiber/v2"
)

// ExportCSV answers 204 when there is nothing to export.
func (handler *Handler) ExportCSV(c *fiber.Ctx) error {
	rows, ok, err := handler.exportRows(c)
	if !ok {
		return err
	}
	setExportAttachmentHeaders(c, "text/csv; charset=utf-8", services.ExportFilename(handler.localNow(), "csv"))
	return c.Send(services.EncodeCSV(rows))
}

func (handler *Handler) ExportJSON(c *fiber.Ctx) error {
	rows, ok, err := handler.exportRows(c)
	if !ok {
		return err
	}
	setExportAttachmentHeaders(c, fiber.MIMEApplicationJSONCharsetUTF8, services.ExportFilename(handler.localNow(), "json"))
	return c.JSON(rows)
}

// exportRows reports false when the response has already been decided.
func (handler *Handler) exportRows(c *fiber.Ctx) ([]services.ExportRow, bool, error) {
	user, _ := currentUser(c)
	rows, err := handler.exports.Rows(c.UserContext(), user.ID)
	if err != nil {
		handler.requestLogger(c).WithError(err).Error("load export rows failed")
		return nil, false, apiError(c, fiber.StatusInternalServerError, errCodeInternal)
	}
	if len(rows) == 0 {
		return nil, false, c.SendStatus(fiber.StatusNoContent)
	}
	return rows, true, nil
}

func (handler *Handler) localNow() time.Time {
	return handler.now().In(handler.location)
}

func setExportAttachmentHeaders(c *fiber.Ctx, contentType string, filename string) {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Set(fiber.HeaderCacheControl, "no-store")
}
