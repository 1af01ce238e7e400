package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventbooking/internal/domain"
)

// snapshotReader serves the assistant context. It only issues SELECTs, and
// ReadOnly wraps them in a READ ONLY transaction so the database refuses writes too.
type snapshotReader struct {
	DB *sql.DB
}

func NewSnapshotReader(db *sql.DB) domain.SnapshotReader {
	return &snapshotReader{DB: db}
}

func (r *snapshotReader) ReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, r.DB, &sql.TxOptions{ReadOnly: true}, fn)
}

func (r *snapshotReader) UpcomingEvents(ctx context.Context, now time.Time, limit int) ([]domain.EventSnapshot, error) {
	query := `
		SELECT e.id, e.title, e.type, e.status, v.name, e.start_time, e.capacity, e.ticket_price,
			(SELECT COUNT(*) FROM bookings b WHERE b.event_id = e.id AND b.status = 'ACTIVE')
		FROM events e
		JOIN venues v ON v.id = e.venue_id
		WHERE e.status = 'PUBLISHED' AND e.start_time >= $1
		ORDER BY e.start_time
		LIMIT $2
	`
	return r.events(ctx, query, now, limit)
}

func (r *snapshotReader) OrganizerEvents(ctx context.Context, organizerID string, limit int) ([]domain.EventSnapshot, error) {
	query := `
		SELECT e.id, e.title, e.type, e.status, v.name, e.start_time, e.capacity, e.ticket_price,
			(SELECT COUNT(*) FROM bookings b WHERE b.event_id = e.id AND b.status = 'ACTIVE')
		FROM events e
		JOIN venues v ON v.id = e.venue_id
		WHERE e.organizer_id = $1
		ORDER BY e.start_time
		LIMIT $2
	`
	return r.events(ctx, query, organizerID, limit)
}

func (r *snapshotReader) events(ctx context.Context, query string, args ...any) ([]domain.EventSnapshot, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("snapshot events: %w", err)
	}
	defer rows.Close()
	var out []domain.EventSnapshot
	for rows.Next() {
		var s domain.EventSnapshot
		var capacity sql.NullInt64
		if err := rows.Scan(&s.ID, &s.Title, &s.Type, &s.Status, &s.VenueName, &s.StartTime, &capacity,
			&s.TicketPrice, &s.Bookings); err != nil {
			return nil, err
		}
		if capacity.Valid {
			c := int(capacity.Int64)
			s.Capacity = &c
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *snapshotReader) CustomerBookings(ctx context.Context, customerID string, limit int) ([]domain.BookingSnapshot, error) {
	query := `
		SELECT b.id, e.id, e.title, b.ticket_qty, b.status, b.total_price, b.booked_at
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		WHERE b.customer_id = $1
		ORDER BY b.booked_at DESC
		LIMIT $2
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, customerID, limit)
	if err != nil {
		return nil, fmt.Errorf("snapshot bookings: %w", err)
	}
	defer rows.Close()
	var out []domain.BookingSnapshot
	for rows.Next() {
		var s domain.BookingSnapshot
		if err := rows.Scan(&s.ID, &s.EventID, &s.EventTitle, &s.Quantity, &s.Status, &s.TotalPrice, &s.BookedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
