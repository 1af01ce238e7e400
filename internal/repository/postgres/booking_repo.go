package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventbooking/internal/domain"
)

const bookingColumns = `id, customer_id, event_id, ticket_qty, unit_price, total_price, status, selected_day, booked_at, cancelled_at`

type bookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(db *sql.DB) domain.BookingRepository {
	return &bookingRepository{DB: db}
}

func scanBooking(row scanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var selectedDay, cancelledAt sql.NullTime
	err := row.Scan(&b.ID, &b.CustomerID, &b.EventID, &b.Quantity, &b.UnitPrice, &b.TotalPrice, &b.Status,
		&selectedDay, &b.BookedAt, &cancelledAt)
	if err != nil {
		return nil, err
	}
	b.SelectedDay = nullTimePtr(selectedDay)
	b.CancelledAt = nullTimePtr(cancelledAt)
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, customer_id, event_id, ticket_qty, unit_price, total_price, status, selected_day, booked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, b.ID, b.CustomerID, b.EventID, b.Quantity, b.UnitPrice,
		b.TotalPrice, b.Status, b.SelectedDay, b.BookedAt)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	b, err := scanBooking(conn(ctx, r.DB).QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return b, nil
}

func (r *bookingRepository) SumActiveQuantity(ctx context.Context, eventID string) (int, error) {
	var total int
	err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT COALESCE(SUM(ticket_qty), 0) FROM bookings WHERE event_id = $1 AND status = 'ACTIVE'`, eventID).
		Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum active tickets: %w", err)
	}
	return total, nil
}

func (r *bookingRepository) HasActiveBooking(ctx context.Context, customerID, eventID string) (bool, error) {
	var exists bool
	err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM bookings WHERE customer_id = $1 AND event_id = $2 AND status = 'ACTIVE')`,
		customerID, eventID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active booking: %w", err)
	}
	return exists, nil
}

func (r *bookingRepository) Cancel(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE bookings SET status = 'CANCELLED', cancelled_at = $1 WHERE id = $2 AND status = 'ACTIVE'`, at, id)
	if err != nil {
		return false, fmt.Errorf("cancel booking: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]*domain.Booking, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE customer_id = $1 ORDER BY booked_at DESC`, customerID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()
	out := make([]*domain.Booking, 0)
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *bookingRepository) ListAttendees(ctx context.Context, eventID string) ([]*domain.Attendee, error) {
	query := `
		SELECT b.id, c.name, c.email, b.ticket_qty, b.status, b.total_price, b.selected_day, b.booked_at
		FROM bookings b
		JOIN customers c ON c.id = b.customer_id
		WHERE b.event_id = $1
		ORDER BY b.booked_at
	`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, fmt.Errorf("list attendees: %w", err)
	}
	defer rows.Close()
	out := make([]*domain.Attendee, 0)
	for rows.Next() {
		a := &domain.Attendee{}
		var selectedDay sql.NullTime
		if err := rows.Scan(&a.BookingID, &a.CustomerName, &a.CustomerEmail, &a.Quantity, &a.Status,
			&a.TotalPrice, &selectedDay, &a.BookedAt); err != nil {
			return nil, err
		}
		a.SelectedDay = nullTimePtr(selectedDay)
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *bookingRepository) ListForOrganizer(ctx context.Context, organizerID, eventID string) ([]*domain.OrganizerBooking, error) {
	query := `
		SELECT b.id, b.event_id, e.title, c.name, c.email, b.ticket_qty, b.status, b.total_price, b.selected_day, b.booked_at
		FROM bookings b
		JOIN events e ON e.id = b.event_id
		JOIN customers c ON c.id = b.customer_id
		WHERE e.organizer_id = $1`
	args := []any{organizerID}
	if eventID != "" {
		query += ` AND b.event_id = $2`
		args = append(args, eventID)
	}
	query += ` ORDER BY b.booked_at DESC`

	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list organizer bookings: %w", err)
	}
	defer rows.Close()
	out := make([]*domain.OrganizerBooking, 0)
	for rows.Next() {
		b := &domain.OrganizerBooking{}
		var selectedDay sql.NullTime
		if err := rows.Scan(&b.BookingID, &b.EventID, &b.EventTitle, &b.CustomerName, &b.CustomerEmail,
			&b.Quantity, &b.Status, &b.TotalPrice, &selectedDay, &b.BookedAt); err != nil {
			return nil, err
		}
		b.SelectedDay = nullTimePtr(selectedDay)
		out = append(out, b)
	}
	return out, rows.Err()
}

type paymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(db *sql.DB) domain.PaymentRepository {
	return &paymentRepository{DB: db}
}

func (r *paymentRepository) Create(ctx context.Context, p *domain.Payment) error {
	query := `
		INSERT INTO payments (id, booking_id, customer_id, amount, method, card_masked, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, p.ID, p.BookingID, p.CustomerID, p.Amount, p.Method, p.CardMasked, p.PaidAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *paymentRepository) GetByBookingID(ctx context.Context, bookingID string) (*domain.Payment, error) {
	p := &domain.Payment{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, `
		SELECT id, booking_id, customer_id, amount, method, card_masked, paid_at
		FROM payments
		WHERE booking_id = $1
	`, bookingID).Scan(&p.ID, &p.BookingID, &p.CustomerID, &p.Amount, &p.Method, &p.CardMasked, &p.PaidAt)
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}
