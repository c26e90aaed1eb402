// Package routers assembles the HTTP application: global middleware, the
// public and admin API groups, and the static site.
package routers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"tourdesk/config"
	authController "tourdesk/controllers/auth"
	contactController "tourdesk/controllers/contact"
	reviewController "tourdesk/controllers/review"
	tourController "tourdesk/controllers/tour"
	uploadController "tourdesk/controllers/upload"
	userController "tourdesk/controllers/user"
	"tourdesk/logging"
	"tourdesk/middleware"
	"tourdesk/repository"
	"tourdesk/routers/authRoutes"
	"tourdesk/routers/contactRoutes"
	"tourdesk/routers/reviewRoutes"
	"tourdesk/routers/tourRoutes"
	"tourdesk/routers/uploadRoutes"
	"tourdesk/routers/userRoutes"
	"tourdesk/utils"
)

// Dependencies are the collaborators the handlers are built from.
type Dependencies struct {
	Config   *config.Config
	Users    repository.UserRepository
	Tours    repository.TourRepository
	Reviews  repository.ReviewRepository
	Logins   repository.LoginTrackingRepository
	Verifier utils.BotVerifier
	Mailer   utils.Mailer
	Notifier utils.ChatNotifier
	Events   utils.EventPublisher
}

// NewApp builds the Fiber application with every route mounted.
func NewApp(deps Dependencies) *fiber.App {
	cfg := deps.Config

	app := fiber.New(fiber.Config{
		// Tour payloads may carry a base64 image, which is a third larger
		// than the file itself.
		BodyLimit:    cfg.UploadMaxBytes*2 + 64<<10,
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET,POST,PUT,PATCH,DELETE",
		AllowHeaders:     "Content-Type",
		AllowCredentials: cfg.CORSOrigins != "*",
	}))
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return middleware.JsonResponse(c, fiber.StatusOK, true, "OK", fiber.Map{"time": time.Now().UTC()})
	})

	Setup(app, deps)

	// Registered last so API paths never fall through to a file lookup.
	app.Static("/", cfg.PublicDir)

	return app
}

// Setup mounts the /api routes on app.
func Setup(app *fiber.App, deps Dependencies) {
	cfg := deps.Config

	api := app.Group("/api")
	session := middleware.SessionMiddleware(deps.Users, cfg.SessionSecret)
	admin := api.Group("/admin", session)

	authRoutes.SetupAuthRoutes(api, authController.New(deps.Users, deps.Logins, cfg.SessionSecret, cfg.CookieSecure), session)
	tourRoutes.SetupTourRoutes(api, admin, tourController.New(deps.Tours, deps.Events, cfg.UploadDir, int64(cfg.UploadMaxBytes)))
	reviewRoutes.SetupReviewRoutes(api, admin, reviewController.New(deps.Reviews, deps.Verifier, deps.Notifier, deps.Events))
	contactRoutes.SetupContactRoutes(api, contactController.New(deps.Verifier, deps.Mailer, deps.Notifier, deps.Events, cfg.ContactRecipient), cfg.ContactRateMax, time.Minute)
	uploadRoutes.SetupUploadRoutes(admin, uploadController.New(cfg.UploadDir, int64(cfg.UploadMaxBytes)))
	userRoutes.SetupUserRoutes(admin, userController.New(deps.Users, cfg.SaltRound))
}

// errorHandler keeps the JSON envelope for errors that escape a handler,
// including Fiber's own 404 and 413.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error!"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		logging.Error().Err(err).Str("path", c.Path()).Msg("unhandled error")
	}
	return middleware.JsonResponse(c, code, false, message, nil)
}
