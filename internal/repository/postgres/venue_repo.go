package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventbooking/internal/domain"
)

const venueColumns = `id, organizer_id, name, address, city, state, zipcode, country, capacity, created_at, updated_at`

type venueRepository struct {
	DB *sql.DB
}

func NewVenueRepository(db *sql.DB) domain.VenueRepository {
	return &venueRepository{DB: db}
}

func scanVenue(row scanner) (*domain.Venue, error) {
	v := &domain.Venue{}
	err := row.Scan(&v.ID, &v.OrganizerID, &v.Name, &v.Address, &v.City, &v.State, &v.Zipcode, &v.Country,
		&v.Capacity, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return v, nil
}

func (r *venueRepository) Create(ctx context.Context, v *domain.Venue) error {
	query := `
		INSERT INTO venues (` + venueColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, v.ID, v.OrganizerID, v.Name, v.Address, v.City, v.State,
		v.Zipcode, v.Country, v.Capacity, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert venue: %w", err)
	}
	return nil
}

func (r *venueRepository) GetByID(ctx context.Context, id string) (*domain.Venue, error) {
	v, err := scanVenue(conn(ctx, r.DB).QueryRowContext(ctx, `SELECT `+venueColumns+` FROM venues WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return v, nil
}

func (r *venueRepository) Update(ctx context.Context, v *domain.Venue) error {
	query := `
		UPDATE venues
		SET name = $1, address = $2, city = $3, state = $4, zipcode = $5, country = $6, capacity = $7, updated_at = $8
		WHERE id = $9
	`
	res, err := conn(ctx, r.DB).ExecContext(ctx, query, v.Name, v.Address, v.City, v.State, v.Zipcode, v.Country,
		v.Capacity, v.UpdatedAt, v.ID)
	if err != nil {
		return fmt.Errorf("update venue: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *venueRepository) ListByOrganizer(ctx context.Context, organizerID string) ([]*domain.Venue, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx,
		`SELECT `+venueColumns+` FROM venues WHERE organizer_id = $1 ORDER BY name`, organizerID)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	defer rows.Close()
	venues := make([]*domain.Venue, 0)
	for rows.Next() {
		v, err := scanVenue(rows)
		if err != nil {
			return nil, err
		}
		venues = append(venues, v)
	}
	return venues, rows.Err()
}
