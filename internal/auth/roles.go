package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util"
)

// RequireStaff ensures the loaded actor carries the staff flag. Managers do
// not implicitly pass; the staff endpoints serve a staff member's own
// assignment list.
func RequireStaff() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !actor.IsStaff {
			return apperrors.NewForbidden("staff role required")
		}
		return c.Next()
	}
}

// RequireManager ensures the loaded actor carries the manager flag.
func RequireManager() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := ActorFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !actor.IsManager {
			return apperrors.NewForbidden("manager role required")
		}
		return c.Next()
	}
}
