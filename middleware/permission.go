package middleware

import (
	"github.com/gofiber/fiber/v2"

	"tourdesk/models"
)

// RequireRoles lets the request through only when the session's role is in
// roles. It must run after SessionMiddleware.
func RequireRoles(roles ...models.Role) fiber.Handler {
	allowed := make(map[models.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		session, ok := CurrentSession(c)
		if !ok {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}
		if _, ok := allowed[session.Role]; !ok {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}
		return c.Next()
	}
}

// Allow-lists per operation group.
var (
	ContentManagers = []models.Role{models.RoleAdmin, models.RoleSuperAdmin}
	UserManagers    = []models.Role{models.RoleSuperAdmin}
)
