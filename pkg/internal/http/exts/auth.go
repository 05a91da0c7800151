package exts

import (
	"github.com/gofiber/fiber/v2"

	"github.com/solcafe/server/pkg/internal/gate"
	"github.com/solcafe/server/pkg/internal/models"
)

// EnsureAuthenticated guards handlers that need an identity. Missing
// identity is 401; authenticated-but-denied cases are the gate's business.
func EnsureAuthenticated(c *fiber.Ctx) error {
	if _, ok := c.Locals("user").(models.Profile); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "you need to be logged in to do this")
	}

	return nil
}

// EnsureVerified additionally requires the account's email to be verified.
func EnsureVerified(c *fiber.Ctx) error {
	if err := EnsureAuthenticated(c); err != nil {
		return err
	}
	if account, ok := c.Locals("account").(models.Account); !ok || !account.EmailVerified {
		return fiber.NewError(fiber.StatusForbidden, "you need to verify your email to do this")
	}

	return nil
}

// ActorOf converts the request identity into a gate actor; anonymous
// requests yield the zero actor.
func ActorOf(c *fiber.Ctx) gate.Actor {
	if user, ok := c.Locals("user").(models.Profile); ok {
		return gate.Actor{ID: user.ID, Role: user.Role}
	}
	return gate.Actor{}
}
