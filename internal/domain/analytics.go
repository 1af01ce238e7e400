package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TrendMonths is the length of the trailing monthly trend.
const TrendMonths = 6

// EventMetrics is the per-event slice of an organizer summary.
// Bookings/Tickets/Revenue count Active bookings only; the Gross* fields
// include cancelled bookings for historical reporting.
type EventMetrics struct {
	EventID       string          `json:"event_id"`
	Title         string          `json:"title"`
	Status        EventStatus     `json:"status"`
	StartTime     time.Time       `json:"start_time"`
	Upcoming      bool            `json:"upcoming"`
	Bookings      int             `json:"bookings"`
	Tickets       int             `json:"tickets"`
	Revenue       decimal.Decimal `json:"revenue"`
	GrossBookings int             `json:"gross_bookings"`
	GrossTickets  int             `json:"gross_tickets"`
	GrossRevenue  decimal.Decimal `json:"gross_revenue"`
}

// OrganizerSummary is the organizer dashboard KPI block.
type OrganizerSummary struct {
	OrganizerID    string          `json:"organizer_id"`
	TotalEvents    int             `json:"total_events"`
	UpcomingEvents int             `json:"upcoming_events"`
	Bookings       int             `json:"bookings"`
	Tickets        int             `json:"tickets"`
	Revenue        decimal.Decimal `json:"revenue"`
	GrossBookings  int             `json:"gross_bookings"`
	GrossTickets   int             `json:"gross_tickets"`
	GrossRevenue   decimal.Decimal `json:"gross_revenue"`
	Events         []EventMetrics  `json:"events"`
	GeneratedAt    time.Time       `json:"generated_at"`
}

// MonthlyPoint is one month of the trend, keyed by the first day of the month (UTC).
type MonthlyPoint struct {
	Month    time.Time       `json:"month"`
	Bookings int             `json:"bookings"`
	Tickets  int             `json:"tickets"`
	Revenue  decimal.Decimal `json:"revenue"`
}

// AnalyticsRepository runs the aggregation queries.
type AnalyticsRepository interface {
	// EventMetrics returns one row per organizer event, ordered by tickets desc then title.
	// Upcoming is left for the caller to compute.
	EventMetrics(ctx context.Context, organizerID string) ([]EventMetrics, error)
	// MonthlyActive aggregates Active bookings created at or after since, one row per month with activity.
	MonthlyActive(ctx context.Context, organizerID string, since time.Time) ([]MonthlyPoint, error)
}

// SummaryCache stores computed organizer summaries.
type SummaryCache interface {
	Get(ctx context.Context, organizerID string) (*OrganizerSummary, bool, error)
	Set(ctx context.Context, summary *OrganizerSummary) error
	Invalidate(ctx context.Context, organizerID string) error
}

// AnalyticsService is the organizer analytics aggregator.
type AnalyticsService interface {
	OrganizerSummary(ctx context.Context, actor Actor, organizerID string) (*OrganizerSummary, error)
	MonthlyTrend(ctx context.Context, actor Actor, organizerID string, months int) ([]MonthlyPoint, error)
}
