package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventbooking/internal/domain"
)

type analyticsRepository struct {
	DB *sql.DB
}

func NewAnalyticsRepository(db *sql.DB) domain.AnalyticsRepository {
	return &analyticsRepository{DB: db}
}

// Each booking has at most one payment, so joining payments does not inflate the sums.
func (r *analyticsRepository) EventMetrics(ctx context.Context, organizerID string) ([]domain.EventMetrics, error) {
	query := `
		SELECT
			e.id, e.title, e.status, e.start_time,
			COUNT(CASE WHEN b.status = 'ACTIVE' THEN 1 END) AS bookings,
			COALESCE(SUM(CASE WHEN b.status = 'ACTIVE' THEN b.ticket_qty END), 0) AS tickets,
			COALESCE(SUM(CASE WHEN b.status = 'ACTIVE' THEN p.amount END), 0) AS revenue,
			COUNT(b.id) AS gross_bookings,
			COALESCE(SUM(b.ticket_qty), 0) AS gross_tickets,
			COALESCE(SUM(p.amount), 0) AS gross_revenue
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id
		LEFT JOIN payments p ON p.booking_id = b.id
		WHERE e.organizer_id = $1
		GROUP BY e.id, e.title, e.status, e.start_time
		ORDER BY tickets DESC, e.title
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, organizerID)
	if err != nil {
		return nil, fmt.Errorf("event metrics: %w", err)
	}
	defer rows.Close()
	out := make([]domain.EventMetrics, 0)
	for rows.Next() {
		var m domain.EventMetrics
		if err := rows.Scan(&m.EventID, &m.Title, &m.Status, &m.StartTime,
			&m.Bookings, &m.Tickets, &m.Revenue,
			&m.GrossBookings, &m.GrossTickets, &m.GrossRevenue); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *analyticsRepository) MonthlyActive(ctx context.Context, organizerID string, since time.Time) ([]domain.MonthlyPoint, error) {
	query := `
		SELECT
			DATE_TRUNC('month', b.booked_at AT TIME ZONE 'UTC') AS month,
			COUNT(*) AS bookings,
			COALESCE(SUM(b.ticket_qty), 0) AS tickets,
			COALESCE(SUM(p.amount), 0) AS revenue
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		LEFT JOIN payments p ON p.booking_id = b.id
		WHERE e.organizer_id = $1 AND b.status = 'ACTIVE' AND b.booked_at >= $2
		GROUP BY month
		ORDER BY month
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, organizerID, since)
	if err != nil {
		return nil, fmt.Errorf("monthly trend: %w", err)
	}
	defer rows.Close()
	out := make([]domain.MonthlyPoint, 0)
	for rows.Next() {
		var p domain.MonthlyPoint
		if err := rows.Scan(&p.Month, &p.Bookings, &p.Tickets, &p.Revenue); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
