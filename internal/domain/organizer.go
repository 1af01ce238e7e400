package domain

import (
	"context"
	"time"
)

// OrganizerStatus tracks admin approval.
type OrganizerStatus string

const (
	OrganizerPending  OrganizerStatus = "PENDING"
	OrganizerApproved OrganizerStatus = "APPROVED"
	OrganizerRejected OrganizerStatus = "REJECTED"
)

// Organizer runs events and venues. Only approved organizers may publish.
// swagger:model Organizer
type Organizer struct {
	ID        string          `json:"id"`
	UserID    *string         `json:"user_id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Phone     string          `json:"phone"`
	Status    OrganizerStatus `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrganizerRepository defines the interface for organizer storage
type OrganizerRepository interface {
	Create(ctx context.Context, org *Organizer) error
	GetByID(ctx context.Context, id string) (*Organizer, error)
	GetByEmail(ctx context.Context, email string) (*Organizer, error)
	UpdateStatus(ctx context.Context, id string, status OrganizerStatus, at time.Time) error
	ListByStatus(ctx context.Context, status OrganizerStatus) ([]*Organizer, error)
}

// OrganizerDecisionEmailData feeds the approval/rejection e-mail.
type OrganizerDecisionEmailData struct {
	Email    string
	Name     string
	Approved bool
}

// OrganizerService covers onboarding and admin approval.
type OrganizerService interface {
	Apply(ctx context.Context, actor Actor, name, email, phone string) (*Organizer, error)
	Approve(ctx context.Context, actor Actor, organizerID string) (*Organizer, error)
	Reject(ctx context.Context, actor Actor, organizerID string) (*Organizer, error)
	List(ctx context.Context, actor Actor, status OrganizerStatus) ([]*Organizer, error)
}
