package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventbooking/internal/domain"
)

const customerColumns = `id, name, email, phone, date_of_birth, address, city, state, zipcode, country, created_at, updated_at`

type customerRepository struct {
	DB *sql.DB
}

func NewCustomerRepository(db *sql.DB) domain.CustomerRepository {
	return &customerRepository{DB: db}
}

func scanCustomer(row scanner) (*domain.Customer, error) {
	c := &domain.Customer{}
	var dob sql.NullTime
	err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &dob, &c.Address, &c.City, &c.State, &c.Zipcode, &c.Country,
		&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.DateOfBirth = nullTimePtr(dob)
	return c, nil
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	_, err := conn(ctx, r.DB).ExecContext(ctx, query, c.ID, c.Name, c.Email, c.Phone, c.DateOfBirth, c.Address,
		c.City, c.State, c.Zipcode, c.Country, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	c, err := scanCustomer(conn(ctx, r.DB).QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	c, err := scanCustomer(conn(ctx, r.DB).QueryRowContext(ctx, `SELECT `+customerColumns+` FROM customers WHERE email = $1`, email))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func (r *customerRepository) Update(ctx context.Context, c *domain.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, email = $2, phone = $3, date_of_birth = $4, address = $5, city = $6,
			state = $7, zipcode = $8, country = $9, updated_at = $10
		WHERE id = $11
	`
	res, err := conn(ctx, r.DB).ExecContext(ctx, query, c.Name, c.Email, c.Phone, c.DateOfBirth, c.Address, c.City,
		c.State, c.Zipcode, c.Country, c.UpdatedAt, c.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicateEmail
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
