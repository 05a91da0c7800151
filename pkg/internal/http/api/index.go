package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/solcafe/server/pkg/internal/gate"
	"github.com/solcafe/server/pkg/internal/models"
	"github.com/solcafe/server/pkg/internal/services"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		auth := api.Group("/auth").Name("Auth API")
		{
			auth.Post("/signup", signUp)
			auth.Post("/signin", signIn)
			auth.Post("/signout", signOut)
			auth.Post("/verify", verifyEmail)
			auth.Post("/reset-password", requestPasswordReset)
			auth.Post("/reset-password/confirm", confirmPasswordReset)
		}

		profiles := api.Group("/profiles").Name("Profiles API")
		{
			profiles.Get("/me", getMyProfile)
			profiles.Patch("/me", editMyProfile)
			profiles.Put("/me/avatar", setMyAvatar)
			profiles.Get("/:profile", getProfile)
		}

		posts := api.Group("/posts").Name("Posts API")
		{
			posts.Get("/", listPost)
			posts.Get("/drafts", listDraftPost)
			posts.Get("/search", searchPost)
			posts.Get("/:postId", getPost)
			posts.Post("/", createPost)
			posts.Patch("/:postId", editPost)
			posts.Delete("/:postId", deletePost)
			posts.Post("/:postId/cover", uploadPostCover)
		}

		contributions := api.Group("/contributions").Name("Contributions API")
		{
			contributions.Get("/", listContribution)
			contributions.Post("/", createContribution)
			contributions.Patch("/:contributionId", editContribution)
			contributions.Delete("/:contributionId", deleteContribution)
		}

		api.Get("/feed", getFeed)
		api.Get("/theme", getTheme)
		api.Post("/metadata/extract", extractLinkMetadata)
	}
}

// logAdminAction records privileged mutations on resources the actor does
// not own, next to the admin_action tag the response already carries.
func logAdminAction(c *fiber.Ctx, decision gate.Decision, action string, id uint) {
	if !decision.AdminAction {
		return
	}

	user, _ := c.Locals("user").(models.Profile)
	log.Info().
		Str("action", action).
		Uint("resource", id).
		Uint("actor", user.ID).
		Msg("An admin performed a privileged mutation.")
}

// mapServiceError translates service layer failures into http statuses.
// Anything unrecognized is a 500 so the client never sees a silent success.
func mapServiceError(err error) error {
	if err == nil {
		return nil
	}

	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.NewError(fiber.StatusBadRequest, verr.Error())
	case errors.Is(err, gate.ErrUnauthorized):
		return fiber.NewError(fiber.StatusUnauthorized, "you need to be logged in to do this")
	case errors.Is(err, gate.ErrForbidden):
		return fiber.NewError(fiber.StatusForbidden, "you are not allowed to do this")
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrStaleRecord):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
