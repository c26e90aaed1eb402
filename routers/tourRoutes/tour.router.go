package tourRoutes

import (
	"github.com/gofiber/fiber/v2"

	tourController "tourdesk/controllers/tour"
	"tourdesk/middleware"
	"tourdesk/validators"
	tourValidator "tourdesk/validators/tour"
)

func SetupTourRoutes(api, admin fiber.Router, ctl *tourController.Controller) {
	api.Get("/tours", ctl.PublicList)

	tourGroup := admin.Group("/tours", middleware.RequireRoles(middleware.ContentManagers...))

	tourGroup.Get("/", tourValidator.ListTours(), ctl.AdminList)
	tourGroup.Post("/", tourValidator.CreateTour(), ctl.Create)
	tourGroup.Put("/", tourValidator.UpdateTour(), ctl.Update)
	tourGroup.Delete("/", validators.QueryID(), ctl.Delete)
	tourGroup.Patch("/", validators.QueryID(), ctl.TogglePublished)
}
