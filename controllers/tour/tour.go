package tourController

import (
	"encoding/base64"
	"errors"

	"github.com/gofiber/fiber/v2"

	"tourdesk/logging"
	"tourdesk/middleware"
	"tourdesk/models"
	"tourdesk/repository"
	"tourdesk/utils"
	"tourdesk/validators"
	tourValidator "tourdesk/validators/tour"
)

type Controller struct {
	tours     repository.TourRepository
	events    utils.EventPublisher
	uploadDir string
	maxUpload int64
}

func New(tours repository.TourRepository, events utils.EventPublisher, uploadDir string, maxUpload int64) *Controller {
	return &Controller{tours: tours, events: events, uploadDir: uploadDir, maxUpload: maxUpload}
}

// PublicList returns the published tours grouped by category.
func (ctl *Controller) PublicList(c *fiber.Ctx) error {
	published := true
	tours, err := ctl.tours.List(c.UserContext(), &published)
	if err != nil {
		logging.Error().Err(err).Msg("failed to list published tours")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tours!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tours fetched successfully.", models.GroupTours(tours))
}

// AdminList returns every tour, optionally filtered by ?published=.
func (ctl *Controller) AdminList(c *fiber.Ctx) error {
	published, _ := c.Locals(tourValidator.LocalPublished).(*bool)

	tours, err := ctl.tours.List(c.UserContext(), published)
	if err != nil {
		logging.Error().Err(err).Msg("failed to list tours")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch tours!", nil)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tours fetched successfully.", models.GroupTours(tours))
}

func (ctl *Controller) Create(c *fiber.Ctx) error {
	input := c.Locals(tourValidator.LocalTour).(*tourValidator.TourInput)

	image, err := ctl.resolveImage(input.Image)
	if err != nil {
		return imageError(c, err)
	}

	tour := toModel(input, image)
	if err := ctl.tours.Create(c.UserContext(), tour); err != nil {
		logging.Error().Err(err).Str("title", tour.Title).Msg("failed to create tour")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create tour!", nil)
	}

	utils.PublishAsync(ctl.events, utils.EventTourCreated, tour)
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Tour created successfully.", tour)
}

// Update replaces every mutable field of an existing tour.
func (ctl *Controller) Update(c *fiber.Ctx) error {
	input := c.Locals(tourValidator.LocalTour).(*tourValidator.TourInput)

	image, err := ctl.resolveImage(input.Image)
	if err != nil {
		return imageError(c, err)
	}

	tour := toModel(input, image)
	if err := ctl.tours.Update(c.UserContext(), tour); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tour not found!", nil)
		}
		logging.Error().Err(err).Uint("tourId", tour.ID).Msg("failed to update tour")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update tour!", nil)
	}

	updated, err := ctl.tours.FindByID(c.UserContext(), tour.ID)
	if err != nil {
		logging.Error().Err(err).Uint("tourId", tour.ID).Msg("failed to reload tour")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update tour!", nil)
	}

	utils.PublishAsync(ctl.events, utils.EventTourUpdated, updated)
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tour updated successfully.", updated)
}

func (ctl *Controller) Delete(c *fiber.Ctx) error {
	id := c.Locals(validators.LocalID).(uint)

	if err := ctl.tours.Delete(c.UserContext(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tour not found!", nil)
		}
		logging.Error().Err(err).Uint("tourId", id).Msg("failed to delete tour")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete tour!", nil)
	}

	utils.PublishAsync(ctl.events, utils.EventTourDeleted, fiber.Map{"id": id})
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tour deleted successfully.", fiber.Map{"id": id})
}

// TogglePublished flips the published flag and returns the updated tour.
func (ctl *Controller) TogglePublished(c *fiber.Ctx) error {
	id := c.Locals(validators.LocalID).(uint)

	tour, err := ctl.tours.TogglePublished(c.UserContext(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Tour not found!", nil)
		}
		logging.Error().Err(err).Uint("tourId", id).Msg("failed to toggle tour")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update tour!", nil)
	}

	utils.PublishAsync(ctl.events, utils.EventTourPublishToggled, fiber.Map{"id": tour.ID, "published": tour.Published})
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Tour visibility updated.", tour)
}

// resolveImage stores an inline base64 image and returns its public URL;
// anything else is already a reference and is kept as is.
func (ctl *Controller) resolveImage(image string) (string, error) {
	if !utils.IsBase64Image(image) {
		return image, nil
	}
	name, err := utils.SaveBase64Image(image, ctl.uploadDir, ctl.maxUpload)
	if err != nil {
		return "", err
	}
	return utils.GetFileURL(name), nil
}

func imageError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, utils.ErrFileTooLarge):
		return middleware.ValidationErrorResponse(c, map[string]string{"image": "Image is too large!"})
	case errors.Is(err, utils.ErrUnsupportedImage):
		return middleware.ValidationErrorResponse(c, map[string]string{"image": "Only jpg, png, webp and gif images are allowed!"})
	}
	var corrupt base64.CorruptInputError
	if errors.As(err, &corrupt) {
		return middleware.ValidationErrorResponse(c, map[string]string{"image": "Invalid image!"})
	}
	logging.Error().Err(err).Msg("failed to store tour image")
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to store image!", nil)
}

func toModel(input *tourValidator.TourInput, image string) *models.Tour {
	return &models.Tour{
		ID:          input.ID,
		Title:       input.Title,
		Description: input.Description,
		Price:       input.Price,
		Currency:    input.Currency,
		Category:    input.Category,
		Image:       image,
		Highlights:  input.Highlights,
		Published:   input.Published,
	}
}
