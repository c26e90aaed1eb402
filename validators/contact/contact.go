package contactValidator

import (
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tourdesk/middleware"
	"tourdesk/validators"
)

const LocalContact = "validatedContact"

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{6,20}$`)

type ContactInput struct {
	Name           string `json:"name" validate:"required,max=120"`
	Phone          string `json:"phone" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Message        string `json:"message" validate:"max=5000"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// SubmitContact validates the public contact form.
func SubmitContact() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ContactInput)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Name = strings.TrimSpace(reqData.Name)
		reqData.Phone = strings.TrimSpace(reqData.Phone)
		reqData.Email = strings.TrimSpace(reqData.Email)
		reqData.Message = strings.TrimSpace(reqData.Message)

		errors := validators.Struct(reqData)
		if _, bad := errors["phone"]; !bad && !phonePattern.MatchString(reqData.Phone) {
			errors = validators.Merge(errors, map[string]string{"phone": "Invalid phone number!"})
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(LocalContact, reqData)
		return c.Next()
	}
}
