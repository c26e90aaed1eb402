package contactRoutes

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	contactController "tourdesk/controllers/contact"
	"tourdesk/middleware"
	contactValidator "tourdesk/validators/contact"
)

// SetupContactRoutes mounts the public contact form, limited to perWindow
// requests per IP.
func SetupContactRoutes(api fiber.Router, ctl *contactController.Controller, perWindow int, window time.Duration) {
	rateLimit := limiter.New(limiter.Config{
		Max:        perWindow,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Too many requests, please try again later!", nil)
		},
	})

	api.Post("/contact", rateLimit, contactValidator.SubmitContact(), ctl.Submit)
}
