package reviewValidator

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"tourdesk/middleware"
	"tourdesk/models"
	"tourdesk/validators"
)

const (
	LocalSubmission   = "validatedReview"
	LocalModeration   = "validatedModeration"
	LocalStatusFilter = "statusFilter"
)

type submitRequest struct {
	Name           string `json:"name"`
	Author         string `json:"author"`
	Text           string `json:"text" validate:"required,max=5000"`
	Rating         *int   `json:"rating" validate:"omitempty,gte=1,lte=5"`
	RecaptchaToken string `json:"recaptchaToken"`
}

// Submission is a public review as accepted from the site. It deliberately
// carries no status: new reviews always start pending.
type Submission struct {
	Author         string
	Text           string
	Rating         *int
	RecaptchaToken string
}

// SubmitReview validates a public review submission.
func SubmitReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(submitRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Text = strings.TrimSpace(reqData.Text)

		author := strings.TrimSpace(reqData.Name)
		if author == "" {
			author = strings.TrimSpace(reqData.Author)
		}

		errors := validators.Struct(reqData)
		if author == "" {
			errors = validators.Merge(errors, map[string]string{"name": "name is required!"})
		} else if len(author) > 120 {
			errors = validators.Merge(errors, map[string]string{"name": "name must be at most 120 characters long!"})
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(LocalSubmission, &Submission{
			Author:         author,
			Text:           reqData.Text,
			Rating:         reqData.Rating,
			RecaptchaToken: reqData.RecaptchaToken,
		})
		return c.Next()
	}
}

type moderateRequest struct {
	ID     models.FlexString `json:"id" validate:"required"`
	Status string            `json:"status" validate:"required"`
}

type Moderation struct {
	ID     uint
	Status models.ReviewStatus
}

// ModerateReview validates an admin status change.
func ModerateReview() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(moderateRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := validators.Struct(reqData)
		out := &Moderation{}

		if reqData.ID != "" {
			id, err := reqData.ID.Uint()
			if err != nil {
				errors = validators.Merge(errors, map[string]string{"id": "id must be a valid positive number!"})
			}
			out.ID = id
		}
		if reqData.Status != "" {
			status, ok := models.ParseReviewStatus(reqData.Status)
			if !ok {
				errors = validators.Merge(errors, map[string]string{"status": "status must be one of: pending, published, rejected!"})
			}
			out.Status = status
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals(LocalModeration, out)
		return c.Next()
	}
}

// ListReviews validates the optional ?status= filter.
func ListReviews() fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := c.Query("status")
		if raw == "" {
			c.Locals(LocalStatusFilter, (*models.ReviewStatus)(nil))
			return c.Next()
		}
		status, ok := models.ParseReviewStatus(raw)
		if !ok {
			return middleware.ValidationErrorResponse(c, map[string]string{"status": "status must be one of: pending, published, rejected!"})
		}
		c.Locals(LocalStatusFilter, &status)
		return c.Next()
	}
}
