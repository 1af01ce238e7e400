package domain

import (
	"context"
	"time"
)

// AdminRole distinguishes full admins from staff.
type AdminRole string

const (
	AdminRoleAdmin AdminRole = "ADMIN"
	AdminRoleStaff AdminRole = "STAFF"
)

// ActorRole maps the admin role onto the token role.
func (r AdminRole) ActorRole() Role {
	if r == AdminRoleAdmin {
		return RoleAdmin
	}
	return RoleStaff
}

// Admin is a portal account, independent of users, customers and organizers.
// swagger:model Admin
type Admin struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Salt         string    `json:"-"`
	Role         AdminRole `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminRepository defines the interface for admin account storage
type AdminRepository interface {
	Create(ctx context.Context, a *Admin) error
	GetByUsername(ctx context.Context, username string) (*Admin, error)
	List(ctx context.Context) ([]*Admin, error)
}

// DashboardStats are the admin portal headline counts.
type DashboardStats struct {
	Events            int `json:"events"`
	Organizers        int `json:"organizers"`
	PendingOrganizers int `json:"pending_organizers"`
	Venues            int `json:"venues"`
	Customers         int `json:"customers"`
	Bookings          int `json:"bookings"`
	Admins            int `json:"admins"`
}

// StatsRepository computes DashboardStats.
type StatsRepository interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
}

// AdminService backs the admin portal.
type AdminService interface {
	Dashboard(ctx context.Context, actor Actor) (*DashboardStats, error)
	CreateAdmin(ctx context.Context, actor Actor, username, email, password string, role AdminRole) (*Admin, error)
	ListAdmins(ctx context.Context, actor Actor) ([]*Admin, error)
	// EnsureAdmin bootstraps the first ADMIN account; it reports whether one was created.
	EnsureAdmin(ctx context.Context, username, email, password string) (bool, error)
}
