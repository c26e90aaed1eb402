package authRoutes

import (
	"github.com/gofiber/fiber/v2"

	authController "tourdesk/controllers/auth"
	authValidator "tourdesk/validators/auth"
)

func SetupAuthRoutes(api fiber.Router, ctl *authController.Controller, session fiber.Handler) {
	authGroup := api.Group("/auth")

	authGroup.Post("/login", authValidator.Login(), ctl.Login)
	authGroup.Post("/logout", ctl.Logout)
	authGroup.Get("/me", session, ctl.Me)
	authGroup.Get("/login/history", session, authValidator.LoginHistoryList(), ctl.LoginHistoryList)
}
