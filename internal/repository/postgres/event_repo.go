package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventbooking/internal/domain"
)

const eventColumns = `e.id, e.title, e.description, e.type, e.status, e.capacity, e.ticket_price,
	e.start_time, e.end_time, e.venue_id, e.organizer_id, e.created_at, e.updated_at`

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

func scanEvent(row scanner) (*domain.Event, error) {
	e := &domain.Event{}
	var capacity sql.NullInt64
	err := row.Scan(
		&e.ID, &e.Title, &e.Description, &e.Type, &e.Status, &capacity, &e.TicketPrice,
		&e.StartTime, &e.EndTime, &e.VenueID, &e.OrganizerID, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if capacity.Valid {
		c := int(capacity.Int64)
		e.Capacity = &c
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, title, description, type, status, capacity, ticket_price,
			start_time, end_time, venue_id, organizer_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query,
		e.ID, e.Title, e.Description, e.Type, e.Status, e.Capacity, e.TicketPrice,
		e.StartTime, e.EndTime, e.VenueID, e.OrganizerID, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert event: %w", err)
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`
	e, err := scanEvent(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (r *eventRepository) GetForUpdate(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1 FOR UPDATE`
	e, err := scanEvent(conn(ctx, r.DB).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return e, nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events
		SET title = $1, description = $2, type = $3, status = $4, capacity = $5, ticket_price = $6,
			start_time = $7, end_time = $8, venue_id = $9, updated_at = $10
		WHERE id = $11
	`
	res, err := conn(ctx, r.DB).ExecContext(ctx, query,
		e.Title, e.Description, e.Type, e.Status, e.Capacity, e.TicketPrice,
		e.StartTime, e.EndTime, e.VenueID, e.UpdatedAt, e.ID,
	)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.organizer_id = $1 ORDER BY e.start_time`
	return r.list(ctx, query, organizerID)
}

func (r *eventRepository) ListPublicUpcoming(ctx context.Context, now time.Time, params domain.PaginationParams) ([]*domain.Event, int, error) {
	const where = `
		FROM events e
		JOIN organizers o ON o.id = e.organizer_id
		WHERE e.status = 'PUBLISHED' AND e.start_time > $1 AND o.status = 'APPROVED'`

	var total int
	if err := conn(ctx, r.DB).QueryRowContext(ctx, `SELECT COUNT(*) `+where, now).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count upcoming events: %w", err)
	}
	events, err := r.list(ctx, `SELECT `+eventColumns+where+` ORDER BY e.start_time LIMIT $2 OFFSET $3`,
		now, params.PageSize, params.Offset())
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}

func (r *eventRepository) list(ctx context.Context, query string, args ...any) ([]*domain.Event, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()
	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
