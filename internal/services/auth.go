package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"eventbooking/internal/clock"
	"eventbooking/internal/domain"

	"github.com/google/uuid"
)

const minPasswordLen = 8

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

func validateCredentials(email, password string) []string {
	var errs []string
	if !emailRegexp.MatchString(email) {
		errs = append(errs, "invalid email format")
	}
	if len(password) < minPasswordLen {
		errs = append(errs, fmt.Sprintf("password must be at least %d characters", minPasswordLen))
	}
	return errs
}

// hashPassword returns a fresh salt and the matching hash.
func hashPassword(hasher domain.PasswordHasher, password string) (hash, salt string, err error) {
	salt, err = hasher.GenerateSalt()
	if err != nil {
		return "", "", err
	}
	hash, err = hasher.Hash(salt, password)
	if err != nil {
		return "", "", err
	}
	return hash, salt, nil
}

type authService struct {
	users          domain.UserRepository
	admins         domain.AdminRepository
	hasher         domain.PasswordHasher
	tokens         domain.TokenIssuer
	tokenExpiry    time.Duration
	clock          clock.Clock
	contextTimeout time.Duration
}

// NewAuthService creates an AuthService for user and admin sign-in.
func NewAuthService(users domain.UserRepository, admins domain.AdminRepository, hasher domain.PasswordHasher, tokens domain.TokenIssuer, tokenExpiry time.Duration, clk clock.Clock, timeout time.Duration) domain.AuthService {
	return &authService{
		users:          users,
		admins:         admins,
		hasher:         hasher,
		tokens:         tokens,
		tokenExpiry:    tokenExpiry,
		clock:          clk,
		contextTimeout: timeout,
	}
}

func (s *authService) SignUp(ctx context.Context, email, password, name string) (*domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	email = normalizeEmail(email)
	if err := domain.NewValidationError(validateCredentials(email, password)...); err != nil {
		return nil, err
	}
	hash, salt, err := hashPassword(s.hasher, password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(uuid.NewString(), email, strings.TrimSpace(name), s.clock.Now())
	user.PasswordHash = hash
	user.Salt = salt
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, *domain.User, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	user, err := s.users.GetByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(user.PasswordHash, user.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(user.ID, user.Email, domain.RoleUser, s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, user, nil
}

func (s *authService) AdminLogin(ctx context.Context, username, password string) (string, *domain.Admin, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	admin, err := s.admins.GetByUsername(ctx, strings.TrimSpace(username))
	if errors.Is(err, domain.ErrNotFound) {
		return "", nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, fmt.Errorf("get admin: %w", err)
	}
	if err := s.hasher.Compare(admin.PasswordHash, admin.Salt, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}
	token, err := s.tokens.Issue(admin.ID, admin.Email, admin.Role.ActorRole(), s.tokenExpiry)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, admin, nil
}
