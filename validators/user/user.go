package userValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"tourdesk/middleware"
	"tourdesk/models"
	"tourdesk/validators"
)

const (
	LocalCreate = "validatedUserCreate"
	LocalUpdate = "validatedUserUpdate"
)

type CreateUserInput struct {
	Name     string `json:"name" validate:"required,min=2,max=120"`
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"required,oneof=admin super_admin"`
}

// CreateUser validates a new admin account.
func CreateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateUserInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Email = strings.TrimSpace(reqData.Email)

		if errors := validators.Struct(reqData); len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(LocalCreate, reqData)
		return c.Next()
	}
}

type updateRequest struct {
	ID       models.FlexString `json:"id" validate:"required"`
	Name     *string           `json:"name" validate:"omitempty,min=2,max=120"`
	Email    *string           `json:"email" validate:"omitempty,email,max=255"`
	Password *string           `json:"password" validate:"omitempty,min=8,max=72"`
	Role     *string           `json:"role" validate:"omitempty,oneof=admin super_admin"`
}

// UpdateUserInput carries only the fields the caller sent; nil means keep.
type UpdateUserInput struct {
	ID       uint
	Name     *string
	Email    *string
	Password *string
	Role     *models.Role
}

// UpdateUser validates a partial update. An empty password is treated as
// omitted, which is what the admin form sends when the field is left blank.
func UpdateUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(updateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		if reqData.Password != nil && *reqData.Password == "" {
			reqData.Password = nil
		}
		trim(reqData.Name)
		trim(reqData.Email)

		errors := validators.Struct(reqData)
		out := &UpdateUserInput{
			Name:     reqData.Name,
			Email:    reqData.Email,
			Password: reqData.Password,
		}
		if reqData.ID != "" {
			id, err := reqData.ID.Uint()
			if err != nil {
				errors = validators.Merge(errors, map[string]string{"id": "id must be a valid positive number!"})
			}
			out.ID = id
		}
		if reqData.Role != nil {
			role := models.Role(*reqData.Role)
			out.Role = &role
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(LocalUpdate, out)
		return c.Next()
	}
}

func trim(s *string) {
	if s != nil {
		*s = strings.TrimSpace(*s)
	}
}
