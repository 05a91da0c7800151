package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/solcafe/server/pkg/internal/http/exts"
	"github.com/solcafe/server/pkg/internal/models"
	"github.com/solcafe/server/pkg/internal/services"
)

func adminSetProfileRole(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("profileId", 0)

	var data struct {
		Role models.ProfileRole `json:"role" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	profile, err := services.GetProfile(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	profile, err = services.SetProfileRole(profile, data.Role)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return fiber.NewError(fiber.StatusBadRequest, verr.Error())
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(profile)
}

func adminDeleteProfile(c *fiber.Ctx) error {
	id, _ := c.ParamsInt("profileId", 0)

	profile, err := services.GetProfile(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	if err := services.DeleteProfile(profile); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
