package authValidator

import (
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tourdesk/middleware"
	"tourdesk/validators"
)

const (
	LocalLogin        = "validatedLogin"
	LocalLoginHistory = "validatedLoginHistory"
)

type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login validator middleware
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
		}
		reqData.Email = strings.TrimSpace(reqData.Email)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(LocalLogin, reqData)
		return c.Next()
	}
}

// Pagination is a validated page request.
type Pagination struct {
	Page  int `query:"page"`
	Limit int `query:"limit"`
}

// LoginHistoryList validates ?page= and ?limit= (defaults 1 and 20, limit at
// most 100). The page is bounded so the row offset cannot overflow.
func LoginHistoryList() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := &Pagination{Page: 1, Limit: 20}
		if err := c.QueryParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}

		errors := make(map[string]string)
		if reqData.Page < 1 {
			errors["page"] = "Page must be greater than 0!"
		}
		if reqData.Limit < 1 || reqData.Limit > 100 {
			errors["limit"] = "Limit must be between 1 and 100!"
		} else if reqData.Page > math.MaxInt32/reqData.Limit {
			errors["page"] = "Page is out of range!"
		}
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(LocalLoginHistory, reqData)
		return c.Next()
	}
}
