package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventbooking/internal/domain"
)

type adminRepository struct {
	DB *sql.DB
}

func NewAdminRepository(db *sql.DB) domain.AdminRepository {
	return &adminRepository{DB: db}
}

func (r *adminRepository) Create(ctx context.Context, a *domain.Admin) error {
	query := `
		INSERT INTO admins (id, username, email, password_hash, salt, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, a.ID, a.Username, a.Email, a.PasswordHash, a.Salt, a.Role, a.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (*domain.Admin, error) {
	a := &domain.Admin{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, `
		SELECT id, username, email, password_hash, salt, role, created_at
		FROM admins
		WHERE username = $1
	`, username).Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &a.Salt, &a.Role, &a.CreatedAt)
	if err != nil {
		return nil, notFound(err)
	}
	return a, nil
}

func (r *adminRepository) List(ctx context.Context) ([]*domain.Admin, error) {
	rows, err := conn(ctx, r.DB).QueryContext(ctx,
		`SELECT id, username, email, role, created_at FROM admins ORDER BY username`)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	defer rows.Close()
	out := make([]*domain.Admin, 0)
	for rows.Next() {
		a := &domain.Admin{}
		if err := rows.Scan(&a.ID, &a.Username, &a.Email, &a.Role, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

type statsRepository struct {
	DB *sql.DB
}

func NewStatsRepository(db *sql.DB) domain.StatsRepository {
	return &statsRepository{DB: db}
}

func (r *statsRepository) Dashboard(ctx context.Context) (*domain.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM organizers),
			(SELECT COUNT(*) FROM organizers WHERE status = 'PENDING'),
			(SELECT COUNT(*) FROM venues),
			(SELECT COUNT(*) FROM customers),
			(SELECT COUNT(*) FROM bookings),
			(SELECT COUNT(*) FROM admins)
	`
	s := &domain.DashboardStats{}
	err := conn(ctx, r.DB).QueryRowContext(ctx, query).
		Scan(&s.Events, &s.Organizers, &s.PendingOrganizers, &s.Venues, &s.Customers, &s.Bookings, &s.Admins)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return s, nil
}
