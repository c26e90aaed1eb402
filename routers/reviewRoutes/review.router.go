package reviewRoutes

import (
	"github.com/gofiber/fiber/v2"

	reviewController "tourdesk/controllers/review"
	"tourdesk/middleware"
	"tourdesk/validators"
	reviewValidator "tourdesk/validators/review"
)

func SetupReviewRoutes(api, admin fiber.Router, ctl *reviewController.Controller) {
	api.Get("/reviews", ctl.PublicList)
	api.Post("/reviews", reviewValidator.SubmitReview(), ctl.Submit)

	reviewGroup := admin.Group("/reviews", middleware.RequireRoles(middleware.ContentManagers...))

	reviewGroup.Get("/", reviewValidator.ListReviews(), ctl.AdminList)
	reviewGroup.Put("/", reviewValidator.ModerateReview(), ctl.Moderate)
	reviewGroup.Delete("/", validators.QueryID(), ctl.Delete)
}
