package api

import (
	"errors"

	"github.com/artemis-health/artemis/internal/models"
	"github.com/artemis-health/artemis/internal/services"
	"github.com/gofiber/fiber/v2"
)

func (handler *Handler) ListEntries(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	entries, err := handler.entries.List(c.UserContext(), user.ID)
	if err != nil {
		handler.requestLogger(c).WithError(err).Error("list entries failed")
		return apiError(c, fiber.StatusInternalServerError, errCodeInternal)
	}
	if entries == nil {
		entries = []models.SymptomEntry{}
	}
	return c.JSON(entries)
}

func (handler *Handler) CreateEntry(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	input := services.EntryInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, errCodeInvalidInput)
	}

	entry, err := handler.entries.Create(c.UserContext(), user.ID, input)
	switch {
	case err == nil:
		return c.Status(fiber.StatusCreated).JSON(entry)
	case services.IsValidationError(err):
		return apiError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrWriteFailure):
		handler.requestLogger(c).WithError(err).Error("create entry failed")
		return apiError(c, fiber.StatusInternalServerError, err.Error())
	default:
		handler.requestLogger(c).WithError(err).Error("create entry failed")
		return apiError(c, fiber.StatusInternalServerError, errCodeInternal)
	}
}

func (handler *Handler) GetStats(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	entries, err := handler.entries.List(c.UserContext(), user.ID)
	if err != nil {
		handler.requestLogger(c).WithError(err).Error("load stats failed")
		return apiError(c, fiber.StatusInternalServerError, errCodeInternal)
	}
	return c.JSON(services.BuildEntryStats(entries))
}
