package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"eventbooking/internal/domain"
)

const organizerColumns = `id, user_id, name, email, phone, status, created_at, updated_at`

type organizerRepository struct {
	DB *sql.DB
}

func NewOrganizerRepository(db *sql.DB) domain.OrganizerRepository {
	return &organizerRepository{DB: db}
}

func scanOrganizer(row scanner) (*domain.Organizer, error) {
	o := &domain.Organizer{}
	var userID sql.NullString
	if err := row.Scan(&o.ID, &userID, &o.Name, &o.Email, &o.Phone, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.UserID = nullStringPtr(userID)
	return o, nil
}

func (r *organizerRepository) Create(ctx context.Context, o *domain.Organizer) error {
	query := `
		INSERT INTO organizers (` + organizerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, o.ID, o.UserID, o.Name, o.Email, o.Phone, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert organizer: %w", err)
	}
	return nil
}

func (r *organizerRepository) GetByID(ctx context.Context, id string) (*domain.Organizer, error) {
	o, err := scanOrganizer(conn(ctx, r.DB).QueryRowContext(ctx, `SELECT `+organizerColumns+` FROM organizers WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (r *organizerRepository) GetByEmail(ctx context.Context, email string) (*domain.Organizer, error) {
	o, err := scanOrganizer(conn(ctx, r.DB).QueryRowContext(ctx, `SELECT `+organizerColumns+` FROM organizers WHERE email = $1`, email))
	if err != nil {
		return nil, notFound(err)
	}
	return o, nil
}

func (r *organizerRepository) UpdateStatus(ctx context.Context, id string, status domain.OrganizerStatus, at time.Time) error {
	res, err := conn(ctx, r.DB).ExecContext(ctx,
		`UPDATE organizers SET status = $1, updated_at = $2 WHERE id = $3`, status, at, id)
	if err != nil {
		return fmt.Errorf("update organizer status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *organizerRepository) ListByStatus(ctx context.Context, status domain.OrganizerStatus) ([]*domain.Organizer, error) {
	query := `SELECT ` + organizerColumns + ` FROM organizers`
	var args []any
	if status != "" {
		query += ` WHERE status = $1`
		args = append(args, status)
	}
	query += ` ORDER BY created_at`
	rows, err := conn(ctx, r.DB).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list organizers: %w", err)
	}
	defer rows.Close()
	out := make([]*domain.Organizer, 0)
	for rows.Next() {
		o, err := scanOrganizer(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
