package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/solcafe/server/pkg/internal/database"
	"github.com/solcafe/server/pkg/internal/http/exts"
	"github.com/solcafe/server/pkg/internal/models"
	"github.com/solcafe/server/pkg/internal/services"
)

func adminDeletePostInBatch(c *fiber.Ctx) error {
	var data struct {
		IDs []uint `json:"ids" validate:"required,min=1"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	var items []models.Post
	if err := database.C.Where("id IN ?", data.IDs).Find(&items).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := services.DeletePostInBatch(items); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": len(items),
	})
}
