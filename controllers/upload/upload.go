package uploadController

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"tourdesk/logging"
	"tourdesk/middleware"
	"tourdesk/utils"
)

type Controller struct {
	dir      string
	maxBytes int64
}

func New(dir string, maxBytes int64) *Controller {
	return &Controller{dir: dir, maxBytes: maxBytes}
}

// Upload stores the multipart "file" image and returns its public URL.
func (ctl *Controller) Upload(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return middleware.ValidationErrorResponse(c, map[string]string{"file": "file is required!"})
	}

	name, err := utils.SaveUploadedFile(file, ctl.dir, ctl.maxBytes)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrFileTooLarge):
			return middleware.ValidationErrorResponse(c, map[string]string{"file": "File is too large!"})
		case errors.Is(err, utils.ErrUnsupportedImage):
			return middleware.ValidationErrorResponse(c, map[string]string{"file": "Only jpg, png, webp and gif images are allowed!"})
		}
		logging.Error().Err(err).Str("filename", file.Filename).Msg("failed to store upload")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to upload file!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "File uploaded successfully.", fiber.Map{"url": utils.GetFileURL(name)})
}
