package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventbooking/internal/domain"
)

type profileRepository struct {
	DB *sql.DB
}

func NewProfileRepository(db *sql.DB) domain.ProfileRepository {
	return &profileRepository{DB: db}
}

func (r *profileRepository) GetByUserID(ctx context.Context, userID string) (*domain.Profile, error) {
	p := &domain.Profile{}
	var customerID, organizerID sql.NullString
	err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT user_id, customer_id, organizer_id FROM profiles WHERE user_id = $1`, userID).
		Scan(&p.UserID, &customerID, &organizerID)
	if err != nil {
		return nil, notFound(err)
	}
	p.CustomerID = nullStringPtr(customerID)
	p.OrganizerID = nullStringPtr(organizerID)
	return p, nil
}

// GetByCustomerID returns the profile that owns customerID.
func (r *profileRepository) GetByCustomerID(ctx context.Context, customerID string) (*domain.Profile, error) {
	p := &domain.Profile{}
	var customer, organizerID sql.NullString
	err := conn(ctx, r.DB).QueryRowContext(ctx,
		`SELECT user_id, customer_id, organizer_id FROM profiles WHERE customer_id = $1`, customerID).
		Scan(&p.UserID, &customer, &organizerID)
	if err != nil {
		return nil, notFound(err)
	}
	p.CustomerID = nullStringPtr(customer)
	p.OrganizerID = nullStringPtr(organizerID)
	return p, nil
}

func (r *profileRepository) SetCustomer(ctx context.Context, userID, customerID string) error {
	query := `
		INSERT INTO profiles (user_id, customer_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET customer_id = EXCLUDED.customer_id
	`
	if _, err := conn(ctx, r.DB).ExecContext(ctx, query, userID, customerID); err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("link customer: %w", err)
	}
	return nil
}

func (r *profileRepository) SetOrganizer(ctx context.Context, userID string, organizerID *string) error {
	query := `
		INSERT INTO profiles (user_id, organizer_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET organizer_id = EXCLUDED.organizer_id
	`
	if _, err := conn(ctx, r.DB).ExecContext(ctx, query, userID, organizerID); err != nil {
		return fmt.Errorf("link organizer: %w", err)
	}
	return nil
}
