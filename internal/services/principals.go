package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eventbooking/internal/clock"
	"eventbooking/internal/domain"

	"github.com/google/uuid"
)

// principals resolves an authenticated user to the customer and organizer records linked by their profile.
type principals struct {
	users      domain.UserRepository
	profiles   domain.ProfileRepository
	customers  domain.CustomerRepository
	organizers domain.OrganizerRepository
	clock      clock.Clock
}

func requireUser(actor domain.Actor) error {
	if actor.IsGuest() {
		return domain.ErrUnauthorized
	}
	if !actor.IsUser() {
		return domain.ErrForbidden
	}
	return nil
}

func (p principals) profile(ctx context.Context, userID string) (*domain.Profile, error) {
	prof, err := p.profiles.GetByUserID(ctx, userID)
	if errors.Is(err, domain.ErrNotFound) {
		return &domain.Profile{UserID: userID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return prof, nil
}

// organizerOf returns the approved organizer linked to actor.
func (p principals) organizerOf(ctx context.Context, actor domain.Actor) (*domain.Organizer, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	prof, err := p.profile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if prof.OrganizerID == nil {
		return nil, domain.ErrForbidden
	}
	org, err := p.organizers.GetByID(ctx, *prof.OrganizerID)
	if err != nil {
		return nil, fmt.Errorf("get organizer: %w", err)
	}
	if org.Status != domain.OrganizerApproved {
		return nil, domain.Violation(domain.RuleOrganizerNotApproved, "organizer %s is %s", org.ID, org.Status)
	}
	return org, nil
}

// organizerID is organizerOf without the approval check; it returns "" when no organizer is linked.
func (p principals) organizerID(ctx context.Context, actor domain.Actor) (string, error) {
	if !actor.IsUser() {
		return "", nil
	}
	prof, err := p.profile(ctx, actor.ID)
	if err != nil || prof.OrganizerID == nil {
		return "", err
	}
	return *prof.OrganizerID, nil
}

// canManage reports whether actor may act on resources of organizerID.
func (p principals) canManage(ctx context.Context, actor domain.Actor, organizerID string) error {
	if actor.IsGuest() {
		return domain.ErrUnauthorized
	}
	if actor.IsAdmin() {
		return nil
	}
	own, err := p.organizerID(ctx, actor)
	if err != nil {
		return err
	}
	if own == "" || own != organizerID {
		return domain.ErrForbidden
	}
	return nil
}

// customerID returns the customer linked to actor, or "" when there is none yet.
func (p principals) customerID(ctx context.Context, actor domain.Actor) (string, error) {
	if !actor.IsUser() {
		return "", nil
	}
	prof, err := p.profile(ctx, actor.ID)
	if err != nil || prof.CustomerID == nil {
		return "", err
	}
	return *prof.CustomerID, nil
}

// customerFor returns actor's customer. When the profile has none it adopts the customer
// holding the user's login email, provided no other profile owns it, or creates one.
func (p principals) customerFor(ctx context.Context, actor domain.Actor) (*domain.Customer, error) {
	if err := requireUser(actor); err != nil {
		return nil, err
	}
	prof, err := p.profile(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if prof.CustomerID != nil {
		c, err := p.customers.GetByID(ctx, *prof.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("get customer: %w", err)
		}
		return c, nil
	}

	user, err := p.users.GetByID(ctx, actor.ID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	c, err := p.customers.GetByEmail(ctx, user.Email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		now := p.clock.Now()
		name := strings.TrimSpace(user.Name)
		if name == "" {
			name = user.Email
		}
		c = &domain.Customer{ID: uuid.NewString(), Name: name, Email: user.Email, CreatedAt: now, UpdatedAt: now}
		if err := p.customers.Create(ctx, c); err != nil {
			return nil, fmt.Errorf("create customer: %w", err)
		}
	case err != nil:
		return nil, fmt.Errorf("get customer by email: %w", err)
	default:
		if err := p.unclaimed(ctx, actor.ID, c); err != nil {
			return nil, err
		}
	}
	if err := p.profiles.SetCustomer(ctx, actor.ID, c.ID); err != nil {
		return nil, fmt.Errorf("link customer: %w", err)
	}
	return c, nil
}

// unclaimed fails when a profile other than userID's already links c.
func (p principals) unclaimed(ctx context.Context, userID string, c *domain.Customer) error {
	owner, err := p.profiles.GetByCustomerID(ctx, c.ID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("get customer owner: %w", err)
	case owner.UserID != userID:
		return domain.Violation(domain.RuleCustomerEmailClaimed, "customer record for %s belongs to another account", c.Email)
	}
	return nil
}

// emailAvailable fails when email is another user's login email.
func (p principals) emailAvailable(ctx context.Context, userID, email string) error {
	u, err := p.users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("get user by email: %w", err)
	case u.ID != userID:
		return domain.Violation(domain.RuleCustomerEmailClaimed, "%s is another account's login email", email)
	}
	return nil
}
