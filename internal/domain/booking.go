package domain

import (
	"context"
	"io"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus is Active until cancelled. Bookings are never re-activated or deleted.
type BookingStatus string

const (
	BookingActive    BookingStatus = "ACTIVE"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Ticket quantity bounds per booking.
const (
	MinTicketQty = 1
	MaxTicketQty = 10
)

// MaxTicketPrice keeps a full booking's total inside NUMERIC(10,2):
// MaxTicketPrice * MaxTicketQty <= 99999999.99.
var MaxTicketPrice = decimal.RequireFromString("9999999.99")

// Booking is a customer's reservation of tickets for an event.
// UnitPrice and TotalPrice are derived at booking time.
// swagger:model Booking
type Booking struct {
	ID          string          `json:"id"`
	CustomerID  string          `json:"customer_id"`
	EventID     string          `json:"event_id"`
	Quantity    int             `json:"ticket_qty"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	Status      BookingStatus   `json:"status"`
	SelectedDay *time.Time      `json:"selected_day,omitempty"`
	BookedAt    time.Time       `json:"booked_at"`
	CancelledAt *time.Time      `json:"cancelled_at,omitempty"`
}

// BookingRequest is one attempt to book an event.
type BookingRequest struct {
	EventID  string
	Quantity int
	// SelectedDay is the 0-based day offset for multi-day concerts.
	SelectedDay *int
	Payment     *PaymentDetails
}

// Validate checks input shape only; business rules run inside the booking transaction.
func (r BookingRequest) Validate() error {
	var errs []string
	if r.EventID == "" {
		errs = append(errs, "event_id is required")
	}
	if r.Quantity < MinTicketQty || r.Quantity > MaxTicketQty {
		errs = append(errs, "ticket_qty must be between 1 and 10")
	}
	if r.SelectedDay != nil && *r.SelectedDay < 0 {
		errs = append(errs, "selected_day must not be negative")
	}
	if r.Payment != nil {
		errs = append(errs, r.Payment.validate()...)
	}
	return NewValidationError(errs...)
}

// Receipt is the derived confirmation view. It is never stored.
type Receipt struct {
	Booking      *Booking  `json:"booking"`
	Event        *Event    `json:"event"`
	VenueName    string    `json:"venue_name"`
	VenueAddress string    `json:"venue_address"`
	Customer     *Customer `json:"customer"`
	Payment      *Payment  `json:"payment,omitempty"`
}

// BookingWithEvent pairs a booking with its event for listings.
type BookingWithEvent struct {
	Booking *Booking `json:"booking"`
	Event   *Event   `json:"event"`
}

// Attendee is one row of an event's attendee export.
type Attendee struct {
	BookingID     string
	CustomerName  string
	CustomerEmail string
	Quantity      int
	Status        BookingStatus
	TotalPrice    decimal.Decimal
	SelectedDay   *time.Time
	BookedAt      time.Time
}

// OrganizerBooking is one row of an organizer's booking list, newest first.
type OrganizerBooking struct {
	BookingID     string          `json:"booking_id"`
	EventID       string          `json:"event_id"`
	EventTitle    string          `json:"event_title"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Quantity      int             `json:"ticket_qty"`
	Status        BookingStatus   `json:"status"`
	TotalPrice    decimal.Decimal `json:"total_price"`
	SelectedDay   *time.Time      `json:"selected_day,omitempty"`
	BookedAt      time.Time       `json:"booked_at"`
}

// Transactor runs fn in a single database transaction. Repositories called with
// the context handed to fn join that transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// BookingRepository defines the interface for booking storage
type BookingRepository interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id string) (*Booking, error)
	SumActiveQuantity(ctx context.Context, eventID string) (int, error)
	HasActiveBooking(ctx context.Context, customerID, eventID string) (bool, error)
	// Cancel flips an active booking to cancelled; it returns false when the booking was not active.
	Cancel(ctx context.Context, id string, at time.Time) (bool, error)
	ListByCustomer(ctx context.Context, customerID string) ([]*Booking, error)
	ListAttendees(ctx context.Context, eventID string) ([]*Attendee, error)
	// ListForOrganizer returns bookings on the organizer's events; a non-empty
	// eventID narrows the list to that event.
	ListForOrganizer(ctx context.Context, organizerID, eventID string) ([]*OrganizerBooking, error)
}

// BookingReceiptEmailData feeds the booking confirmation e-mail.
type BookingReceiptEmailData struct {
	Email        string
	CustomerName string
	EventTitle   string
	StartTime    time.Time
	VenueAddress string
	Quantity     int
	Total        string
	Method       string
}

// BookingService is the booking rule engine plus booking read models.
type BookingService interface {
	AttemptBooking(ctx context.Context, actor Actor, req BookingRequest) (*Receipt, error)
	CancelBooking(ctx context.Context, actor Actor, bookingID string) (*Booking, error)
	GetReceipt(ctx context.Context, actor Actor, bookingID string) (*Receipt, error)
	ListMine(ctx context.Context, actor Actor) ([]*BookingWithEvent, error)
	ExportAttendees(ctx context.Context, actor Actor, eventID string, w io.Writer) error
	ListForOrganizer(ctx context.Context, actor Actor, eventID string) ([]*OrganizerBooking, error)
}
