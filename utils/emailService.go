package utils

import (
	"context"
	"fmt"
	"html"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"tourdesk/logging"
)

// Mailer delivers an HTML email.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// SendGridMailer sends through the SendGrid v3 API.
type SendGridMailer struct {
	client *sendgrid.Client
	from   *mail.Email
}

func NewSendGridMailer(apiKey, from string) *SendGridMailer {
	return &SendGridMailer{
		client: sendgrid.NewSendClient(apiKey),
		from:   mail.NewEmail("Tourdesk", from),
	}
}

func (m *SendGridMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	message := mail.NewSingleEmail(m.from, subject, mail.NewEmail("", to), "", htmlBody)
	resp, err := m.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid status %d: %s", resp.StatusCode, resp.Body)
	}
	logging.Info().Str("to", to).Str("subject", subject).Msg("email sent")
	return nil
}

// logMailer stands in when no API key is configured, e.g. in development.
type logMailer struct{}

func (logMailer) Send(_ context.Context, to, subject, _ string) error {
	logging.Warn().Str("to", to).Str("subject", subject).Msg("mail delivery not configured, email dropped")
	return nil
}

// NewMailer picks SendGrid when an API key is set.
func NewMailer(apiKey, from string) Mailer {
	if apiKey == "" || from == "" {
		return logMailer{}
	}
	return NewSendGridMailer(apiKey, from)
}

// getEmailTemplate wraps body content in the site's email layout.
func getEmailTemplate(title string, bodyContent string) string {
	return fmt.Sprintf(`
	<!DOCTYPE html>
	<html>
	<body style="font-family: Arial, sans-serif; background-color: #F6F6F6; margin: 0; padding: 0;">
		<div style="max-width: 600px; margin: 40px auto; background: #FFFFFF; border-radius: 8px; overflow: hidden;">
			<div style="background-color: #0B4F6C; padding: 24px; text-align: center;">
				<h1 style="color: #FFFFFF; margin: 0; font-size: 22px;">%s</h1>
			</div>
			<div style="padding: 32px 28px; color: #1F2933; line-height: 1.6;">
				%s
			</div>
		</div>
	</body>
	</html>
	`, html.EscapeString(title), bodyContent)
}

// ContactEmail renders the contact-form notification sent to the agency.
func ContactEmail(name, phone, email, message string) (subject, body string) {
	subject = "New contact request from " + name
	body = getEmailTemplate("New contact request", fmt.Sprintf(`
		<p><strong>Name:</strong> %s</p>
		<p><strong>Phone:</strong> %s</p>
		<p><strong>Email:</strong> %s</p>
		<p><strong>Message:</strong></p>
		<p style="white-space: pre-wrap;">%s</p>
	`, html.EscapeString(name), html.EscapeString(phone), html.EscapeString(email), html.EscapeString(message)))
	return subject, body
}
