package api

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/solcafe/server/pkg/internal/models"
	"github.com/solcafe/server/pkg/internal/services"
)

func getTheme(c *fiber.Ctx) error {
	var role models.ProfileRole
	if user, authenticated := c.Locals("user").(models.Profile); authenticated {
		role = user.Role
	}

	return c.JSON(services.ComputeThemeClasses(time.Now(), role))
}
