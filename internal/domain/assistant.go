package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// QueryIntent is the class a free-text question is sorted into.
type QueryIntent string

const (
	IntentEventLookup    QueryIntent = "event-lookup"
	IntentBookingStats   QueryIntent = "booking-stats"
	IntentOrganizerStats QueryIntent = "organizer-stats"
	IntentUnknown        QueryIntent = "unknown"
)

// Row limits for the context payload.
const (
	ContextEventLimit          = 20
	ContextBookingLimit        = 20
	ContextOrganizerEventLimit = 30
)

// QueryContext is the bounded text block handed to the assistant.
type QueryContext struct {
	Intent QueryIntent
	Text   string
}

// EventSnapshot is an event row as the assistant sees it.
type EventSnapshot struct {
	ID          string
	Title       string
	Type        EventType
	Status      EventStatus
	VenueName   string
	StartTime   time.Time
	Capacity    *int
	TicketPrice decimal.Decimal
	Bookings    int
}

// BookingSnapshot is a booking row as the assistant sees it.
type BookingSnapshot struct {
	ID         string
	EventID    string
	EventTitle string
	Quantity   int
	Status     BookingStatus
	TotalPrice decimal.Decimal
	BookedAt   time.Time
}

// SnapshotReader is the read-only data access used to build a QueryContext.
// Implementations must never write.
type SnapshotReader interface {
	// ReadOnly runs fn inside a read-only transaction.
	ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
	UpcomingEvents(ctx context.Context, now time.Time, limit int) ([]EventSnapshot, error)
	CustomerBookings(ctx context.Context, customerID string, limit int) ([]BookingSnapshot, error)
	OrganizerEvents(ctx context.Context, organizerID string, limit int) ([]EventSnapshot, error)
}

// QueryContextBuilder turns a question into a QueryContext.
type QueryContextBuilder interface {
	Build(ctx context.Context, actor Actor, question string) (QueryContext, error)
}

// AssistantClient talks to the language-model endpoint. Failures surface as
// ErrAssistantUnavailable.
type AssistantClient interface {
	Ask(ctx context.Context, contextText, question string) (string, error)
}

// AssistantReply is the chat answer shown to the user.
type AssistantReply struct {
	Reply    string      `json:"reply"`
	Intent   QueryIntent `json:"intent"`
	Fallback bool        `json:"fallback"`
}

// AssistantService answers questions about the data.
type AssistantService interface {
	Chat(ctx context.Context, actor Actor, message string) (*AssistantReply, error)
}
