package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/solcafe/server/pkg/internal/security"
	"github.com/solcafe/server/pkg/internal/services"
)

// authenticate resolves the bearer token into the request identity. It
// never rejects by itself; handlers that need an identity check the locals.
func authenticate(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, "Bearer ") {
		return c.Next()
	}

	claims, err := security.ParseToken(strings.TrimPrefix(header, "Bearer "))
	if err != nil || services.IsTokenRevoked(claims.ID) {
		return c.Next()
	}

	accountId, err := security.TokenAccountID(claims)
	if err != nil {
		return c.Next()
	}

	account, err := services.GetAccountWithID(accountId)
	if err != nil {
		return c.Next()
	}

	user, err := services.EnsureProfile(account)
	if err != nil {
		return c.Next()
	}

	c.Locals("account", account)
	c.Locals("user", user)

	return c.Next()
}
