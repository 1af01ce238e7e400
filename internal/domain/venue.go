package domain

import (
	"context"
	"time"
)

// Venue is a physical location owned by an organizer.
// swagger:model Venue
type Venue struct {
	ID          string    `json:"id"`
	OrganizerID string    `json:"organizer_id"`
	Name        string    `json:"name"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	Zipcode     string    `json:"zipcode"`
	Country     string    `json:"country"`
	Capacity    int       `json:"capacity"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// FullAddress joins the non-empty address parts.
func (v *Venue) FullAddress() string {
	out := ""
	for _, part := range []string{v.Address, v.City, v.State, v.Zipcode, v.Country} {
		if part == "" {
			continue
		}
		if out != "" {
			out += ", "
		}
		out += part
	}
	return out
}

// Validate checks required fields and capacity bounds.
func (v *Venue) Validate() error {
	var errs []string
	if v.Name == "" {
		errs = append(errs, "name is required")
	}
	if v.Address == "" {
		errs = append(errs, "address is required")
	}
	if v.Capacity < 0 || v.Capacity > MaxCapacity {
		errs = append(errs, "capacity must be between 0 and 50000")
	}
	return NewValidationError(errs...)
}

// VenueRepository defines the interface for venue storage
type VenueRepository interface {
	Create(ctx context.Context, venue *Venue) error
	GetByID(ctx context.Context, id string) (*Venue, error)
	Update(ctx context.Context, venue *Venue) error
	ListByOrganizer(ctx context.Context, organizerID string) ([]*Venue, error)
}

// VenueService manages venues for organizers and admins.
type VenueService interface {
	CreateVenue(ctx context.Context, actor Actor, venue *Venue) error
	UpdateVenue(ctx context.Context, actor Actor, venue *Venue) (*Venue, error)
	ListMine(ctx context.Context, actor Actor) ([]*Venue, error)
}
