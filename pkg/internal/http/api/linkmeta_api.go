package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/solcafe/server/pkg/internal/http/exts"
	"github.com/solcafe/server/pkg/internal/services"
)

func extractLinkMetadata(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data struct {
		URL string `json:"url" validate:"required,url"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	meta, err := services.ExtractLinkMetadata(data.URL)
	if err != nil {
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	}

	return c.JSON(meta)
}
