package domain

import "context"

// Mailer defines the contract for sending emails (infrastructure port).
type Mailer interface {
	Send(ctx context.Context, to, subject, html, text string) error
}

// EmailTemplateRenderer renders email content from a named template with the given data.
type EmailTemplateRenderer interface {
	Render(templateName string, data any) (subject, htmlBody, textBody string, err error)
}

// EmailService sends the domain e-mails.
type EmailService interface {
	SendBookingReceipt(ctx context.Context, data *BookingReceiptEmailData) error
	SendOrganizerDecision(ctx context.Context, data *OrganizerDecisionEmailData) error
}
