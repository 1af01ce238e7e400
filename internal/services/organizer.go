package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"eventbooking/internal/clock"
	"eventbooking/internal/domain"

	"github.com/google/uuid"
)

type organizerService struct {
	tx             domain.Transactor
	organizerRepo  domain.OrganizerRepository
	profileRepo    domain.ProfileRepository
	emailService   domain.EmailService
	clock          clock.Clock
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewOrganizerService(tx domain.Transactor, organizerRepo domain.OrganizerRepository, profileRepo domain.ProfileRepository, emailService domain.EmailService, clk clock.Clock, logger *slog.Logger, timeout time.Duration) domain.OrganizerService {
	return &organizerService{
		tx:             tx,
		organizerRepo:  organizerRepo,
		profileRepo:    profileRepo,
		emailService:   emailService,
		clock:          clk,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Apply files a Pending organizer for the caller. Re-applying after a rejection
// reopens the same record; an e-mail held by someone else's organizer is refused.
func (s *organizerService) Apply(ctx context.Context, actor domain.Actor, name, email, phone string) (*domain.Organizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireUser(actor); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	email = normalizeEmail(email)
	var errs []string
	if name == "" {
		errs = append(errs, "name is required")
	}
	if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if err := domain.NewValidationError(errs...); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	existing, err := s.organizerRepo.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("get organizer: %w", err)
	case existing.UserID == nil || *existing.UserID != actor.ID:
		return nil, domain.Violation(domain.RuleOrganizerEmailClaimed, "an organizer with this email already exists")
	case existing.Status == domain.OrganizerRejected:
		if err := s.organizerRepo.UpdateStatus(ctx, existing.ID, domain.OrganizerPending, now); err != nil {
			return nil, fmt.Errorf("reopen organizer: %w", err)
		}
		existing.Status = domain.OrganizerPending
		existing.UpdatedAt = now
		return existing, nil
	default:
		return existing, nil
	}

	userID := actor.ID
	org := &domain.Organizer{
		ID:        uuid.NewString(),
		UserID:    &userID,
		Name:      name,
		Email:     email,
		Phone:     strings.TrimSpace(phone),
		Status:    domain.OrganizerPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.organizerRepo.Create(ctx, org); err != nil {
		return nil, fmt.Errorf("create organizer: %w", err)
	}
	return org, nil
}

// Approve marks the organizer approved and links it to the applicant's profile.
func (s *organizerService) Approve(ctx context.Context, actor domain.Actor, organizerID string) (*domain.Organizer, error) {
	return s.decide(ctx, actor, organizerID, domain.OrganizerApproved)
}

// Reject marks the organizer rejected and unlinks it, which revokes organizer access.
func (s *organizerService) Reject(ctx context.Context, actor domain.Actor, organizerID string) (*domain.Organizer, error) {
	return s.decide(ctx, actor, organizerID, domain.OrganizerRejected)
}

func (s *organizerService) decide(ctx context.Context, actor domain.Actor, organizerID string, status domain.OrganizerStatus) (*domain.Organizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor.IsGuest() {
		return nil, domain.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}

	var org *domain.Organizer
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		o, err := s.organizerRepo.GetByID(ctx, organizerID)
		if err != nil {
			return fmt.Errorf("get organizer: %w", err)
		}
		now := s.clock.Now()
		if err := s.organizerRepo.UpdateStatus(ctx, o.ID, status, now); err != nil {
			return fmt.Errorf("update organizer status: %w", err)
		}
		o.Status = status
		o.UpdatedAt = now
		if o.UserID != nil {
			var link *string
			if status == domain.OrganizerApproved {
				link = &o.ID
			}
			if err := s.profileRepo.SetOrganizer(ctx, *o.UserID, link); err != nil {
				return fmt.Errorf("link organizer: %w", err)
			}
		}
		org = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	data := &domain.OrganizerDecisionEmailData{Email: org.Email, Name: org.Name, Approved: status == domain.OrganizerApproved}
	if err := s.emailService.SendOrganizerDecision(ctx, data); err != nil {
		s.logger.WarnContext(ctx, "organizer decision e-mail failed", "organizer_id", org.ID, "err", err)
	}
	return org, nil
}

func (s *organizerService) List(ctx context.Context, actor domain.Actor, status domain.OrganizerStatus) ([]*domain.Organizer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor.IsGuest() {
		return nil, domain.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return nil, domain.ErrForbidden
	}
	switch status {
	case "", domain.OrganizerPending, domain.OrganizerApproved, domain.OrganizerRejected:
	default:
		return nil, domain.NewValidationError("status must be PENDING, APPROVED or REJECTED")
	}
	orgs, err := s.organizerRepo.ListByStatus(ctx, status)
	if err != nil {
		return nil, fmt.Errorf("list organizers: %w", err)
	}
	if orgs == nil {
		orgs = []*domain.Organizer{}
	}
	return orgs, nil
}
