package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/solcafe/server/pkg/internal/services"
)

func getFeed(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)

	var cursor *time.Time
	if raw := c.Query("cursor"); len(raw) > 0 {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "cursor must be a RFC3339 timestamp")
		}
		cursor = &parsed
	}

	entries, err := services.GetFeed(limit, cursor)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": len(entries),
		"data":  entries,
	})
}
