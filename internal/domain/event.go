package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// EventStatus is the publication state of an event. Cancelled replaces deletion.
type EventStatus string

const (
	EventStatusDraft     EventStatus = "DRAFT"
	EventStatusPublished EventStatus = "PUBLISHED"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// MaxCapacity bounds event and venue capacities.
const MaxCapacity = 50000

// Event is something customers can browse and, depending on its type, book.
// swagger:model Event
type Event struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Type        EventType       `json:"type"`
	Status      EventStatus     `json:"status"`
	Capacity    *int            `json:"capacity"`
	TicketPrice decimal.Decimal `json:"ticket_price"`
	StartTime   time.Time       `json:"start_time"`
	EndTime     time.Time       `json:"end_time"`
	VenueID     string          `json:"venue_id"`
	OrganizerID string          `json:"organizer_id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// Days returns the calendar days (UTC midnight) the event spans, first day at offset 0.
func (e *Event) Days() []time.Time {
	first := truncateDay(e.StartTime)
	last := truncateDay(e.EndTime)
	var days []time.Time
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// MultiDay reports whether the event starts and ends on different calendar days.
func (e *Event) MultiDay() bool {
	return len(e.Days()) > 1
}

// Validate cross-checks dates, capacity and price against the event type.
// requireFuture enforces that the start is not in the past (used on create
// and whenever the start time changes).
func (e *Event) Validate(now time.Time, requireFuture bool) error {
	var errs []string
	if e.Title == "" {
		errs = append(errs, "title is required")
	}
	if e.VenueID == "" {
		errs = append(errs, "venue_id is required")
	}
	if e.StartTime.IsZero() || e.EndTime.IsZero() {
		errs = append(errs, "start_time and end_time are required")
	} else {
		if !e.EndTime.After(e.StartTime) {
			errs = append(errs, "end_time must be after start_time")
		}
		if requireFuture && e.StartTime.Before(now) {
			errs = append(errs, "start_time cannot be in the past")
		}
	}
	if e.Capacity != nil && (*e.Capacity < 0 || *e.Capacity > MaxCapacity) {
		errs = append(errs, "capacity must be between 0 and 50000")
	}
	if !e.TicketPrice.Equal(e.TicketPrice.Truncate(2)) {
		errs = append(errs, "ticket_price allows at most 2 decimal places")
	}
	if e.TicketPrice.GreaterThan(MaxTicketPrice) {
		errs = append(errs, "ticket_price cannot exceed "+MaxTicketPrice.StringFixed(2))
	}
	policy, err := PolicyFor(e.Type)
	if err != nil {
		errs = append(errs, err.Error())
	} else {
		errs = append(errs, policy.ValidateListing(e)...)
	}
	return NewValidationError(errs...)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EventDetails is an event with its venue and live availability.
type EventDetails struct {
	Event     *Event      `json:"event"`
	Venue     *Venue      `json:"venue"`
	Remaining *int        `json:"remaining"`
	Days      []time.Time `json:"days,omitempty"`
}

// EventInput carries the editable fields of an event.
type EventInput struct {
	Title       string
	Description string
	Type        EventType
	Capacity    *int
	TicketPrice decimal.Decimal
	StartTime   time.Time
	EndTime     time.Time
	VenueID     string
}

// EventRepository defines the interface for event storage
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	// GetForUpdate locks the event row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id string) (*Event, error)
	Update(ctx context.Context, event *Event) error
	ListByOrganizer(ctx context.Context, organizerID string) ([]*Event, error)
	// ListPublicUpcoming returns published events starting after now whose organizer is approved.
	ListPublicUpcoming(ctx context.Context, now time.Time, params PaginationParams) ([]*Event, int, error)
}

// EventService manages the event lifecycle for organizers and admins.
type EventService interface {
	CreateEvent(ctx context.Context, actor Actor, in EventInput) (*Event, error)
	UpdateEvent(ctx context.Context, actor Actor, eventID string, in EventInput) (*Event, error)
	PublishEvent(ctx context.Context, actor Actor, eventID string) (*Event, error)
	CancelEvent(ctx context.Context, actor Actor, eventID string) (*Event, error)
	GetEvent(ctx context.Context, actor Actor, eventID string) (*EventDetails, error)
	ListUpcoming(ctx context.Context, params PaginationParams) ([]*Event, int, error)
	ListMine(ctx context.Context, actor Actor) ([]*Event, error)
}
