package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/hydrotek/service-desk/pkg/util/errorutil"
)

// RequireSignedIn ensures the caller is authenticated.
func RequireSignedIn() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := IdentityFromContext(c); !ok {
			return errorutil.NewNotAuthenticated("sign in required")
		}
		return c.Next()
	}
}

// RequireStaff gates the triage surface to staff and admin roles. Row-level
// authorization stays with the record store.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, ok := IdentityFromContext(c)
		if !ok {
			return errorutil.NewNotAuthenticated("sign in required")
		}
		if !identity.Role.Staff() {
			return errorutil.NewForbidden("staff role required")
		}
		return c.Next()
	}
}
