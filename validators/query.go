package validators

import (
	"github.com/gofiber/fiber/v2"

	"tourdesk/middleware"
)

// LocalID is the c.Locals key holding the id validated by QueryID.
const LocalID = "validatedId"

// QueryID requires a positive integer ?id= and stores it as uint.
func QueryID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := ParseID(c.Query("id"))
		if !ok {
			return middleware.ValidationErrorResponse(c, map[string]string{
				"id": "id must be a valid positive number!",
			})
		}
		c.Locals(LocalID, id)
		return c.Next()
	}
}
