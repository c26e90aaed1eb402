package authController

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"tourdesk/logging"
	"tourdesk/middleware"
	"tourdesk/models"
	"tourdesk/repository"
	"tourdesk/utils"
	authValidator "tourdesk/validators/auth"
)

type Controller struct {
	users        repository.UserRepository
	logins       repository.LoginTrackingRepository
	secret       string
	cookieSecure bool
	now          func() time.Time
}

func New(users repository.UserRepository, logins repository.LoginTrackingRepository, secret string, cookieSecure bool) *Controller {
	return &Controller{users: users, logins: logins, secret: secret, cookieSecure: cookieSecure, now: time.Now}
}

// Login checks the credentials and sets the session cookie. Unknown email and
// wrong password get the same answer.
func (ctl *Controller) Login(c *fiber.Ctx) error {
	input := c.Locals(authValidator.LocalLogin).(*authValidator.LoginInput)

	user, err := ctl.users.FindByEmail(c.UserContext(), input.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		logging.Error().Err(err).Msg("failed to look up admin user")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	if user == nil || !utils.CheckPassword(input.Password, user.PasswordHash) {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	now := ctl.now()
	token, err := middleware.GenerateSessionToken(user, ctl.secret, now)
	if err != nil {
		logging.Error().Err(err).Uint("userId", user.ID).Msg("failed to sign session token")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}
	middleware.SetSessionCookie(c, token, ctl.cookieSecure)

	if err := ctl.users.TouchLastLogin(c.UserContext(), user.ID, now); err != nil {
		logging.Warn().Err(err).Uint("userId", user.ID).Msg("failed to record last login")
	} else {
		user.LastLoginAt = &now
	}

	if err := ctl.logins.Record(c.UserContext(), &models.LoginTracking{
		UserID:    user.ID,
		IPAddress: c.IP(),
		Device:    truncate(c.Get(fiber.HeaderUserAgent), 255),
		CreatedAt: now,
	}); err != nil {
		logging.Warn().Err(err).Uint("userId", user.ID).Msg("failed to record login")
	}

	logging.Info().Uint("userId", user.ID).Str("ip", c.IP()).Msg("admin logged in")
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful.", user)
}

func (ctl *Controller) Logout(c *fiber.Ctx) error {
	middleware.ClearSessionCookie(c, ctl.cookieSecure)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Logged out.", nil)
}

// Me returns the account behind the current session.
func (ctl *Controller) Me(c *fiber.Ctx) error {
	session, _ := middleware.CurrentSession(c)

	user, err := ctl.users.FindByID(c.UserContext(), session.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
		}
		logging.Error().Err(err).Uint("userId", session.UserID).Msg("failed to load current user")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch profile!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully.", user)
}

// LoginHistoryList pages through the caller's own sign-ins.
func (ctl *Controller) LoginHistoryList(c *fiber.Ctx) error {
	session, _ := middleware.CurrentSession(c)
	page := c.Locals(authValidator.LocalLoginHistory).(*authValidator.Pagination)

	entries, total, err := ctl.logins.ListByUser(c.UserContext(), session.UserID, page.Page, page.Limit)
	if err != nil {
		logging.Error().Err(err).Uint("userId", session.UserID).Msg("failed to list login history")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch login history!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login history fetched successfully.", fiber.Map{
		"loginTracking": entries,
		"pagination": fiber.Map{
			"total": total,
			"page":  page.Page,
			"limit": page.Limit,
		},
	})
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
