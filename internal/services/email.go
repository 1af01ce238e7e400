package services

import (
	"context"
	"fmt"

	"eventbooking/internal/domain"
)

type emailService struct {
	mailer   domain.Mailer
	renderer domain.EmailTemplateRenderer
}

// NewEmailService returns an EmailService that uses the given Mailer and template renderer.
func NewEmailService(mailer domain.Mailer, renderer domain.EmailTemplateRenderer) domain.EmailService {
	return &emailService{mailer: mailer, renderer: renderer}
}

// SendBookingReceipt sends the "booking_receipt" template.
func (s *emailService) SendBookingReceipt(ctx context.Context, data *domain.BookingReceiptEmailData) error {
	if data == nil {
		return fmt.Errorf("booking receipt data is nil")
	}
	return s.send(ctx, "booking_receipt", data.Email, data)
}

// SendOrganizerDecision sends the "organizer_decision" template.
func (s *emailService) SendOrganizerDecision(ctx context.Context, data *domain.OrganizerDecisionEmailData) error {
	if data == nil {
		return fmt.Errorf("organizer decision data is nil")
	}
	return s.send(ctx, "organizer_decision", data.Email, data)
}

func (s *emailService) send(ctx context.Context, template, to string, data any) error {
	subject, htmlBody, textBody, err := s.renderer.Render(template, data)
	if err != nil {
		return fmt.Errorf("failed to render %s template: %w", template, err)
	}
	if err := s.mailer.Send(ctx, to, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("failed to send %s email: %w", template, err)
	}
	return nil
}
