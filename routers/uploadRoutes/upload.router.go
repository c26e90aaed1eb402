package uploadRoutes

import (
	"github.com/gofiber/fiber/v2"

	uploadController "tourdesk/controllers/upload"
	"tourdesk/middleware"
)

func SetupUploadRoutes(admin fiber.Router, ctl *uploadController.Controller) {
	admin.Post("/upload", middleware.RequireRoles(middleware.ContentManagers...), ctl.Upload)
}
