package tourValidator

import (
	"math"
	"strings"

	"github.com/gofiber/fiber/v2"

	"tourdesk/middleware"
	"tourdesk/models"
	"tourdesk/validators"
)

const (
	LocalTour      = "validatedTour"
	LocalPublished = "publishedFilter"
	maxPrice       = 100_000_000
)

type tourRequest struct {
	ID          models.FlexString `json:"id"`
	Title       string            `json:"title" validate:"required,max=200"`
	Description string            `json:"description" validate:"max=10000"`
	Price       models.FlexString `json:"price" validate:"required"`
	Currency    string            `json:"currency" validate:"omitempty,len=3,alpha"`
	Category    string            `json:"category" validate:"required,oneof=hot popular special"`
	Image       string            `json:"image"`
	Highlights  []string          `json:"highlights" validate:"omitempty,max=20,dive,max=200"`
	Published   *bool             `json:"published"`
}

// TourInput is a validated create/update payload. Image is still raw: a URL
// or a base64 payload the controller stores.
type TourInput struct {
	ID          uint
	Title       string
	Description string
	Price       float64
	Currency    string
	Category    models.TourCategory
	Image       string
	Highlights  []string
	Published   bool
}

// CreateTour validates a new tour.
func CreateTour() fiber.Handler {
	return validateTour(false)
}

// UpdateTour validates a full replacement; id is required.
func UpdateTour() fiber.Handler {
	return validateTour(true)
}

func validateTour(requireID bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(tourRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Title = strings.TrimSpace(reqData.Title)
		reqData.Category = strings.ToLower(strings.TrimSpace(reqData.Category))

		errors := validators.Struct(reqData)

		input := &TourInput{
			Title:       reqData.Title,
			Description: strings.TrimSpace(reqData.Description),
			Currency:    strings.ToUpper(reqData.Currency),
			Category:    models.TourCategory(reqData.Category),
			Image:       strings.TrimSpace(reqData.Image),
			Highlights:  cleanHighlights(reqData.Highlights),
		}
		if input.Currency == "" {
			input.Currency = "EUR"
		}
		if reqData.Published != nil {
			input.Published = *reqData.Published
		}

		if requireID {
			id, err := reqData.ID.Uint()
			if err != nil {
				errors = validators.Merge(errors, map[string]string{"id": "id must be a valid positive number!"})
			}
			input.ID = id
		}

		if _, bad := errors["price"]; !bad && reqData.Price != "" {
			price, err := reqData.Price.Float()
			// Checked after rounding: the stored value is what must be positive.
			price = math.Round(price*100) / 100
			if err != nil || math.IsNaN(price) || price <= 0 || price > maxPrice {
				errors = validators.Merge(errors, map[string]string{"price": "Price must be a positive number!"})
			}
			input.Price = price
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(LocalTour, input)
		return c.Next()
	}
}

func cleanHighlights(in []string) []string {
	out := make([]string, 0, len(in))
	for _, h := range in {
		if h = strings.TrimSpace(h); h != "" {
			out = append(out, h)
		}
	}
	return out
}

// ListTours validates the optional ?published=true|false filter.
func ListTours() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("published")
		switch raw {
		case "":
			c.Locals(LocalPublished, (*bool)(nil))
		case "true", "false":
			v := raw == "true"
			c.Locals(LocalPublished, &v)
		default:
			return middleware.ValidationErrorResponse(c, map[string]string{"published": "published must be true or false!"})
		}
		return c.Next()
	}
}
