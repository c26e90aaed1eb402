package userRoutes

import (
	"github.com/gofiber/fiber/v2"

	userController "tourdesk/controllers/user"
	"tourdesk/middleware"
	"tourdesk/validators"
	userValidator "tourdesk/validators/user"
)

// SetupUserRoutes mounts admin account management. Only super_admin gets in.
func SetupUserRoutes(admin fiber.Router, ctl *userController.Controller) {
	userGroup := admin.Group("/users", middleware.RequireRoles(middleware.UserManagers...))

	userGroup.Get("/", ctl.List)
	userGroup.Post("/", userValidator.CreateUser(), ctl.Create)
	userGroup.Put("/", userValidator.UpdateUser(), ctl.Update)
	userGroup.Delete("/", validators.QueryID(), ctl.Delete)
}
