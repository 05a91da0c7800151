package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/solcafe/server/pkg/internal/gate"
	"github.com/solcafe/server/pkg/internal/http/exts"
	"github.com/solcafe/server/pkg/internal/models"
	"github.com/solcafe/server/pkg/internal/services"
)

func listContribution(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	items, err := services.ListContributionWithAuthor(user.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": len(items),
		"data":  items,
	})
}

func createContribution(c *fiber.Ctx) error {
	if err := exts.EnsureVerified(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	var data struct {
		Type    string `json:"type" validate:"required"`
		Title   string `json:"title" validate:"required"`
		Content string `json:"content" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.NewContribution(user, models.Contribution{
		Type:    data.Type,
		Title:   data.Title,
		Content: data.Content,
	})
	if err != nil {
		return mapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func editContribution(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, _ := c.ParamsInt("contributionId", 0)

	existing, err := services.GetContribution(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	decision, err := gate.Decide(exts.ActorOf(c), existing, gate.ActionUpdate)
	if err != nil {
		return mapServiceError(err)
	}

	var data struct {
		Type    string `json:"type" validate:"required"`
		Title   string `json:"title" validate:"required"`
		Content string `json:"content" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.EditContribution(models.Contribution{
		Type:    data.Type,
		Title:   data.Title,
		Content: data.Content,
	}, existing)
	if err != nil {
		return mapServiceError(err)
	}

	logAdminAction(c, decision, "contributions.edit", existing.ID)

	return c.JSON(fiber.Map{
		"data":         item,
		"admin_action": decision.AdminAction,
	})
}

func deleteContribution(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, _ := c.ParamsInt("contributionId", 0)

	existing, err := services.GetContribution(uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	decision, err := gate.Decide(exts.ActorOf(c), existing, gate.ActionDelete)
	if err != nil {
		return mapServiceError(err)
	}

	if err := services.DeleteContribution(existing); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	logAdminAction(c, decision, "contributions.delete", existing.ID)

	return c.JSON(fiber.Map{
		"admin_action": decision.AdminAction,
	})
}
