package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventbooking/internal/clock"
	"eventbooking/internal/domain"

	"github.com/google/uuid"
)

type adminService struct {
	adminRepo      domain.AdminRepository
	statsRepo      domain.StatsRepository
	hasher         domain.PasswordHasher
	clock          clock.Clock
	contextTimeout time.Duration
}

func NewAdminService(adminRepo domain.AdminRepository, statsRepo domain.StatsRepository, hasher domain.PasswordHasher, clk clock.Clock, timeout time.Duration) domain.AdminService {
	return &adminService{
		adminRepo:      adminRepo,
		statsRepo:      statsRepo,
		hasher:         hasher,
		clock:          clk,
		contextTimeout: timeout,
	}
}

func requireAdmin(actor domain.Actor) error {
	if actor.IsGuest() {
		return domain.ErrUnauthorized
	}
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	return nil
}

func (s *adminService) Dashboard(ctx context.Context, actor domain.Actor) (*domain.DashboardStats, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	stats, err := s.statsRepo.Dashboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard stats: %w", err)
	}
	return stats, nil
}

// CreateAdmin is restricted to the ADMIN role; staff cannot add accounts.
func (s *adminService) CreateAdmin(ctx context.Context, actor domain.Actor, username, email, password string, role domain.AdminRole) (*domain.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !actor.CanManageAdmins() {
		return nil, domain.ErrForbidden
	}
	return s.create(ctx, username, email, password, role)
}

func (s *adminService) create(ctx context.Context, username, email, password string, role domain.AdminRole) (*domain.Admin, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	errs := validateCredentials(email, password)
	if username == "" {
		errs = append(errs, "username is required")
	}
	if role != domain.AdminRoleAdmin && role != domain.AdminRoleStaff {
		errs = append(errs, "role must be ADMIN or STAFF")
	}
	if err := domain.NewValidationError(errs...); err != nil {
		return nil, err
	}
	hash, salt, err := hashPassword(s.hasher, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	admin := &domain.Admin{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		Salt:         salt,
		Role:         role,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.adminRepo.Create(ctx, admin); err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return admin, nil
}

// EnsureAdmin creates an ADMIN account with username unless one already exists.
// It runs at startup without an actor.
func (s *adminService) EnsureAdmin(ctx context.Context, username, email, password string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	_, err := s.adminRepo.GetByUsername(ctx, strings.TrimSpace(username))
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return false, fmt.Errorf("get admin: %w", err)
	}
	if _, err := s.create(ctx, username, email, password, domain.AdminRoleAdmin); err != nil {
		return false, err
	}
	return true, nil
}

func (s *adminService) ListAdmins(ctx context.Context, actor domain.Actor) ([]*domain.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	admins, err := s.adminRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list admins: %w", err)
	}
	if admins == nil {
		admins = []*domain.Admin{}
	}
	return admins, nil
}
