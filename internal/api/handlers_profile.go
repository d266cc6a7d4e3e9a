package api

import (
	"errors"

	"github.com/artemis-health/artemis/internal/services"
	"github.com/gofiber/fiber/v2"
)

type profileInput struct {
	FullName string `json:"full_name" form:"full_name"`
}

func (handler *Handler) GetProfile(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	profile, err := handler.profiles.Profile(c.UserContext(), user.ID)
	if err != nil {
		handler.requestLogger(c).WithError(err).Warn("load profile failed")
	}
	return c.JSON(fiber.Map{
		"id":           user.ID,
		"full_name":    profile.FullName,
		"display_name": services.DisplayName(profile.FullName),
	})
}

func (handler *Handler) UpdateProfile(c *fiber.Ctx) error {
	user, _ := currentUser(c)
	input := profileInput{}
	if err := c.BodyParser(&input); err != nil {
		return apiError(c, fiber.StatusBadRequest, errCodeInvalidInput)
	}

	profile, err := handler.profiles.Rename(c.UserContext(), user.ID, input.FullName)
	switch {
	case errors.Is(err, services.ErrFullNameTooLong):
		return apiError(c, fiber.StatusBadRequest, errCodeFullNameTooLong)
	case err != nil:
		handler.requestLogger(c).WithError(err).Error("update profile failed")
		return apiError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"id":           user.ID,
		"full_name":    profile.FullName,
		"display_name": services.DisplayName(profile.FullName),
	})
}
