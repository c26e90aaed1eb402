package reviewController

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"tourdesk/logging"
	"tourdesk/middleware"
	"tourdesk/models"
	"tourdesk/repository"
	"tourdesk/utils"
	"tourdesk/validators"
	reviewValidator "tourdesk/validators/review"
)

type Controller struct {
	reviews  repository.ReviewRepository
	verifier utils.BotVerifier
	notifier utils.ChatNotifier
	events   utils.EventPublisher
}

func New(reviews repository.ReviewRepository, verifier utils.BotVerifier, notifier utils.ChatNotifier, events utils.EventPublisher) *Controller {
	return &Controller{reviews: reviews, verifier: verifier, notifier: notifier, events: events}
}

// PublicList returns published reviews, newest first.
func (ctl *Controller) PublicList(c *fiber.Ctx) error {
	status := models.ReviewStatusPublished
	reviews, err := ctl.reviews.List(c.UserContext(), &status)
	if err != nil {
		logging.Error().Err(err).Msg("failed to list published reviews")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully.", reviews)
}

// Submit stores a public review. Whatever the client sends, it starts pending.
func (ctl *Controller) Submit(c *fiber.Ctx) error {
	input := c.Locals(reviewValidator.LocalSubmission).(*reviewValidator.Submission)

	ok, err := ctl.verifier.Verify(c.UserContext(), input.RecaptchaToken, c.IP())
	if err != nil {
		logging.Error().Err(err).Msg("bot verification failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not verify the request, please try again!", nil)
	}
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Bot verification failed!", nil)
	}

	review := &models.Review{
		Author: input.Author,
		Text:   input.Text,
		Rating: input.Rating,
		Status: models.ReviewStatusPending,
	}
	if err := ctl.reviews.Create(c.UserContext(), review); err != nil {
		logging.Error().Err(err).Msg("failed to save review")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit review!", nil)
	}

	go ctl.notifyStaff(utils.ReviewChatMessage(review.Author, review.Text, review.Rating))
	utils.PublishAsync(ctl.events, utils.EventReviewSubmitted, review)

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Thank you! Your review will appear after moderation.", review)
}

func (ctl *Controller) notifyStaff(text string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := ctl.notifier.Notify(ctx, text); err != nil {
		logging.Warn().Err(err).Msg("failed to send review notification")
	}
}

// AdminList returns every review, optionally filtered by ?status=.
func (ctl *Controller) AdminList(c *fiber.Ctx) error {
	status, _ := c.Locals(reviewValidator.LocalStatusFilter).(*models.ReviewStatus)

	reviews, err := ctl.reviews.List(c.UserContext(), status)
	if err != nil {
		logging.Error().Err(err).Msg("failed to list reviews")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviews!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched successfully.", reviews)
}

// Moderate moves a review to a new status.
func (ctl *Controller) Moderate(c *fiber.Ctx) error {
	input := c.Locals(reviewValidator.LocalModeration).(*reviewValidator.Moderation)

	review, err := ctl.reviews.FindByID(c.UserContext(), input.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
		}
		logging.Error().Err(err).Uint("reviewId", input.ID).Msg("failed to load review")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update review!", nil)
	}

	if !review.Status.CanTransitionTo(input.Status) {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"status": "A moderated review cannot be moved back to pending!",
		})
	}

	if review.Status != input.Status {
		if err := ctl.reviews.UpdateStatus(c.UserContext(), review.ID, input.Status); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
			}
			logging.Error().Err(err).Uint("reviewId", review.ID).Msg("failed to update review status")
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update review!", nil)
		}
		utils.PublishAsync(ctl.events, utils.EventReviewModerated, fiber.Map{
			"id":     review.ID,
			"from":   review.Status,
			"status": input.Status,
		})
		review.Status = input.Status
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully.", review)
}

func (ctl *Controller) Delete(c *fiber.Ctx) error {
	id := c.Locals(validators.LocalID).(uint)

	if err := ctl.reviews.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Review not found!", nil)
		}
		logging.Error().Err(err).Uint("reviewId", id).Msg("failed to delete review")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete review!", nil)
	}

	utils.PublishAsync(ctl.events, utils.EventReviewDeleted, fiber.Map{"id": id})
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review deleted successfully.", fiber.Map{"id": id})
}
