package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventbooking/internal/clock"
	"eventbooking/internal/domain"

	"github.com/google/uuid"
)

type profileService struct {
	tx             domain.Transactor
	who            principals
	contextTimeout time.Duration
}

func NewProfileService(
	tx domain.Transactor,
	userRepo domain.UserRepository,
	profileRepo domain.ProfileRepository,
	customerRepo domain.CustomerRepository,
	organizerRepo domain.OrganizerRepository,
	clk clock.Clock,
	timeout time.Duration,
) domain.ProfileService {
	return &profileService{
		tx: tx,
		who: principals{
			users:      userRepo,
			profiles:   profileRepo,
			customers:  customerRepo,
			organizers: organizerRepo,
			clock:      clk,
		},
		contextTimeout: timeout,
	}
}

func (s *profileService) Me(ctx context.Context, actor domain.Actor) (*domain.ProfileView, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireUser(actor); err != nil {
		return nil, err
	}
	user, err := s.who.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	prof, err := s.who.profile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	view := &domain.ProfileView{User: user}
	if prof.CustomerID != nil {
		if view.Customer, err = s.who.customers.GetByID(ctx, *prof.CustomerID); err != nil {
			return nil, fmt.Errorf("get customer: %w", err)
		}
	}
	if prof.OrganizerID != nil {
		if view.Organizer, err = s.who.organizers.GetByID(ctx, *prof.OrganizerID); err != nil {
			return nil, fmt.Errorf("get organizer: %w", err)
		}
	}
	return view, nil
}

func validateCustomer(c *domain.Customer, now time.Time) error {
	var errs []string
	if c.Name == "" {
		errs = append(errs, "name is required")
	}
	if !emailRegexp.MatchString(c.Email) {
		errs = append(errs, "invalid email format")
	}
	if c.DateOfBirth != nil && !c.DateOfBirth.Before(now) {
		errs = append(errs, "date_of_birth must be in the past")
	}
	return domain.NewValidationError(errs...)
}

// SaveCustomer creates or updates the customer linked to the caller.
func (s *profileService) SaveCustomer(ctx context.Context, actor domain.Actor, in *domain.Customer) (*domain.Customer, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireUser(actor); err != nil {
		return nil, err
	}
	in.Name = strings.TrimSpace(in.Name)
	in.Email = normalizeEmail(in.Email)
	now := s.who.clock.Now()
	if err := validateCustomer(in, now); err != nil {
		return nil, err
	}

	if err := s.who.emailAvailable(ctx, actor.ID, in.Email); err != nil {
		return nil, err
	}

	var saved *domain.Customer
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		current, err := s.who.customerFor(ctx, actor)
		if domain.IsRule(err, domain.RuleCustomerEmailClaimed) {
			// The login email's record is owned elsewhere; start a fresh one from the input.
			in.ID = uuid.NewString()
			in.CreatedAt = now
			in.UpdatedAt = now
			if err := s.who.customers.Create(ctx, in); err != nil {
				return fmt.Errorf("create customer: %w", err)
			}
			if err := s.who.profiles.SetCustomer(ctx, actor.ID, in.ID); err != nil {
				return fmt.Errorf("link customer: %w", err)
			}
			saved = in
			return nil
		}
		if err != nil {
			return err
		}
		in.ID = current.ID
		in.CreatedAt = current.CreatedAt
		in.UpdatedAt = now
		if err := s.who.customers.Update(ctx, in); err != nil {
			return fmt.Errorf("update customer: %w", err)
		}
		saved = in
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}
