package api

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/solcafe/server/pkg/internal/http/exts"
	"github.com/solcafe/server/pkg/internal/models"
	"github.com/solcafe/server/pkg/internal/services"
)

func getMyProfile(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	return c.JSON(user)
}

func getProfile(c *fiber.Ctx) error {
	param := c.Params("profile")

	var item models.Profile
	var err error
	if numericId, paramErr := strconv.Atoi(param); paramErr == nil {
		item, err = services.GetProfile(uint(numericId))
	} else {
		item, err = services.GetProfileByName(param)
	}
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(item)
}

func editMyProfile(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	var data struct {
		Name string `json:"name" validate:"required"`
		Nick string `json:"nick"`
		Bio  string `json:"bio"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := services.EditProfile(user, data.Name, data.Nick, data.Bio)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(item)
}

func setMyAvatar(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	file, err := c.FormFile("avatar")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing avatar file in request")
	}

	source, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	defer source.Close()

	object, url, err := services.UploadObject(user.ID, "avatars", file.Filename, source)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	item, err := services.SetProfileAvatar(user, object.Path)
	if err != nil {
		return mapServiceError(err)
	}

	return c.JSON(fiber.Map{
		"profile": item,
		"url":     url,
	})
}
