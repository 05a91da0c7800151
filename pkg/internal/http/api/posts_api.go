package api

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/solcafe/server/pkg/internal/database"
	"github.com/solcafe/server/pkg/internal/gate"
	"github.com/solcafe/server/pkg/internal/http/exts"
	"github.com/solcafe/server/pkg/internal/models"
	"github.com/solcafe/server/pkg/internal/services"
)

func universalPostFilter(c *fiber.Ctx, tx *gorm.DB) (*gorm.DB, error) {
	if user, authenticated := c.Locals("user").(models.Profile); authenticated {
		tx = services.FilterPostWithUserContext(tx, &user)
	} else {
		tx = services.FilterPostWithUserContext(tx, nil)
	}

	if postType := c.Query("type"); len(postType) > 0 {
		if !lo.Contains(models.PostTypes, postType) {
			return tx, fiber.NewError(fiber.StatusBadRequest, "unknown post type")
		}
		tx = services.FilterPostWithType(tx, postType)
	}

	if name := c.Query("author"); len(name) > 0 {
		author, err := services.GetProfileByName(name)
		if err != nil {
			return tx, fiber.NewError(fiber.StatusNotFound, err.Error())
		}
		tx = services.FilterPostWithAuthor(tx, author.ID)
	}

	if tag := c.Query("tag"); len(tag) > 0 {
		tx = services.FilterPostWithTag(tx, tag)
	}

	return tx, nil
}

func getPost(c *fiber.Ctx) error {
	id := c.Params("postId")

	var item models.Post
	var err error

	tx := database.C
	if user, authenticated := c.Locals("user").(models.Profile); authenticated {
		tx = services.FilterPostWithUserContext(tx, &user)
	} else {
		tx = services.FilterPostWithUserContext(tx, nil)
	}

	if numericId, paramErr := strconv.Atoi(id); paramErr == nil {
		item, err = services.GetPost(tx, uint(numericId))
	} else {
		item, err = services.GetPostBySlug(tx, id)
	}

	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	return c.JSON(item)
}

func listPost(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	tx := database.C

	var err error
	if tx, err = universalPostFilter(c, tx); err != nil {
		return err
	}

	count, err := services.CountPost(tx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListPost(tx, take, offset, "created_at DESC")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func searchPost(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	probe := c.Query("probe")
	if len(probe) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "probe is required")
	}

	tx := services.FilterPostWithFuzzySearch(database.C, probe)

	var err error
	if tx, err = universalPostFilter(c, tx); err != nil {
		return err
	}

	count, err := services.CountPost(tx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListPost(tx, take, offset, "created_at DESC")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

func listDraftPost(c *fiber.Ctx) error {
	take := c.QueryInt("take", 20)
	offset := c.QueryInt("offset", 0)

	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	tx := services.FilterPostWithAuthorDraft(database.C, user.ID)

	count, err := services.CountPost(tx)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	items, err := services.ListPost(tx, take, offset, "created_at DESC")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"count": count,
		"data":  items,
	})
}

type postPayload struct {
	Type        string         `json:"type"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Tags        string         `json:"tags"`
	CoverURL    string         `json:"cover_url"`
	Published   bool           `json:"published"`
	Metadata    map[string]any `json:"metadata"`
}

func (v postPayload) toPost() (models.Post, error) {
	tags, err := services.ParseTags(v.Tags)
	if err != nil {
		return models.Post{}, err
	}

	return models.Post{
		Type:        v.Type,
		Title:       v.Title,
		Description: v.Description,
		Tags:        datatypes.NewJSONSlice(tags),
		CoverURL:    v.CoverURL,
		Published:   v.Published,
		Metadata:    datatypes.JSONMap(v.Metadata),
	}, nil
}

func createPost(c *fiber.Ctx) error {
	if err := exts.EnsureVerified(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)

	if _, err := gate.Decide(exts.ActorOf(c), nil, gate.ActionCreate); err != nil {
		return mapServiceError(err)
	}

	var data postPayload
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := data.toPost()
	if err != nil {
		return mapServiceError(err)
	}

	item, err = services.NewPost(user, item)
	if err != nil {
		return mapServiceError(err)
	}

	return c.Status(fiber.StatusCreated).JSON(item)
}

func editPost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, _ := c.ParamsInt("postId", 0)

	existing, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	decision, err := gate.Decide(exts.ActorOf(c), existing, gate.ActionUpdate)
	if err != nil {
		return mapServiceError(err)
	}

	var data struct {
		postPayload
		UpdatedAt *time.Time `json:"updated_at"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	item, err := data.toPost()
	if err != nil {
		return mapServiceError(err)
	}

	item, err = services.EditPost(item, existing, data.UpdatedAt)
	if err != nil {
		return mapServiceError(err)
	}

	logAdminAction(c, decision, "posts.edit", existing.ID)

	return c.JSON(fiber.Map{
		"data":         item,
		"admin_action": decision.AdminAction,
	})
}

func deletePost(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	id, _ := c.ParamsInt("postId", 0)

	existing, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	decision, err := gate.Decide(exts.ActorOf(c), existing, gate.ActionDelete)
	if err != nil {
		return mapServiceError(err)
	}

	if err := services.DeletePost(existing); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	logAdminAction(c, decision, "posts.delete", existing.ID)

	return c.JSON(fiber.Map{
		"admin_action": decision.AdminAction,
	})
}

func uploadPostCover(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Profile)
	id, _ := c.ParamsInt("postId", 0)

	existing, err := services.GetPost(database.C, uint(id))
	if err != nil {
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	}

	decision, err := gate.Decide(exts.ActorOf(c), existing, gate.ActionUpdate)
	if err != nil {
		return mapServiceError(err)
	}

	file, err := c.FormFile("cover")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "missing cover file in request")
	}

	source, err := file.Open()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	defer source.Close()

	_, url, err := services.UploadObject(user.ID, "covers", file.Filename, source)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	if err := database.C.Model(&existing).Update("cover_url", url).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	logAdminAction(c, decision, "posts.cover", existing.ID)

	return c.JSON(fiber.Map{
		"url":          url,
		"admin_action": decision.AdminAction,
	})
}
