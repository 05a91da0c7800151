package admin

import (
	"github.com/gofiber/fiber/v2"

	"github.com/solcafe/server/pkg/internal/gate"
	"github.com/solcafe/server/pkg/internal/http/exts"
)

func MapControllers(app *fiber.App, baseURL string) {
	admin := app.Group(baseURL).Name("Admin API").Use(ensureAdmin)
	{
		admin.Patch("/profiles/:profileId/role", adminSetProfileRole)
		admin.Delete("/profiles/:profileId", adminDeleteProfile)
		admin.Delete("/posts", adminDeletePostInBatch)
	}
}

func ensureAdmin(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	if !gate.CanAssignRole(exts.ActorOf(c)) {
		return fiber.NewError(fiber.StatusForbidden, "you are not allowed to do this")
	}

	return c.Next()
}
