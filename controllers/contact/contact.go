package contactController

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"tourdesk/logging"
	"tourdesk/middleware"
	"tourdesk/utils"
	contactValidator "tourdesk/validators/contact"
)

type Controller struct {
	verifier  utils.BotVerifier
	mailer    utils.Mailer
	notifier  utils.ChatNotifier
	events    utils.EventPublisher
	recipient string
}

func New(verifier utils.BotVerifier, mailer utils.Mailer, notifier utils.ChatNotifier, events utils.EventPublisher, recipient string) *Controller {
	return &Controller{verifier: verifier, mailer: mailer, notifier: notifier, events: events, recipient: recipient}
}

// Submit forwards a contact request to the agency. The email is what matters;
// the chat message and the event are extras that may fail quietly.
func (ctl *Controller) Submit(c *fiber.Ctx) error {
	input := c.Locals(contactValidator.LocalContact).(*contactValidator.ContactInput)

	ok, err := ctl.verifier.Verify(c.UserContext(), input.RecaptchaToken, c.IP())
	if err != nil {
		logging.Error().Err(err).Msg("bot verification failed")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Could not verify the request, please try again!", nil)
	}
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Bot verification failed!", nil)
	}

	subject, body := utils.ContactEmail(input.Name, input.Phone, input.Email, input.Message)
	if err := ctl.mailer.Send(c.UserContext(), ctl.recipient, subject, body); err != nil {
		logging.Error().Err(err).Str("from", input.Email).Msg("failed to send contact email")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to send your message, please try again later!", nil)
	}

	go func(text string) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := ctl.notifier.Notify(ctx, text); err != nil {
			logging.Warn().Err(err).Msg("failed to send contact notification")
		}
	}(utils.ContactChatMessage(input.Name, input.Phone, input.Email, input.Message))

	utils.PublishAsync(ctl.events, utils.EventContactReceived, fiber.Map{
		"name":  input.Name,
		"phone": input.Phone,
		"email": input.Email,
	})

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Thank you! We will contact you shortly.", nil)
}
