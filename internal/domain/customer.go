package domain

import (
	"context"
	"time"
)

// Customer is the booking party. Email is unique.
// swagger:model Customer
type Customer struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Phone       string     `json:"phone"`
	DateOfBirth *time.Time `json:"date_of_birth"`
	Address     string     `json:"address"`
	City        string     `json:"city"`
	State       string     `json:"state"`
	Zipcode     string     `json:"zipcode"`
	Country     string     `json:"country"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// CustomerRepository defines the interface for customer storage
type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	GetByID(ctx context.Context, id string) (*Customer, error)
	GetByEmail(ctx context.Context, email string) (*Customer, error)
	Update(ctx context.Context, c *Customer) error
}

// Profile links a user identity to at most one customer and one organizer.
type Profile struct {
	UserID      string  `json:"user_id"`
	CustomerID  *string `json:"customer_id"`
	OrganizerID *string `json:"organizer_id"`
}

// ProfileRepository stores the user links. Set* upsert the row.
type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	GetByCustomerID(ctx context.Context, customerID string) (*Profile, error)
	SetCustomer(ctx context.Context, userID, customerID string) error
	SetOrganizer(ctx context.Context, userID string, organizerID *string) error
}

// ProfileView is everything a user sees on their own profile page.
type ProfileView struct {
	User      *User      `json:"user"`
	Customer  *Customer  `json:"customer"`
	Organizer *Organizer `json:"organizer"`
}

// ProfileService reads and edits the current user's profile.
type ProfileService interface {
	Me(ctx context.Context, actor Actor) (*ProfileView, error)
	SaveCustomer(ctx context.Context, actor Actor, c *Customer) (*Customer, error)
}
