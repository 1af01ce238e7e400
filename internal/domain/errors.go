package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors shared by services and repositories.
var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrInvalidCredentials   = errors.New("invalid credentials")
	ErrDuplicateEmail       = errors.New("email already in use")
	ErrAssistantUnavailable = errors.New("assistant unavailable")
)

// ValidationError reports bad input shape or range, field by field.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Fields, "; ")
}

// NewValidationError returns nil when no messages are given.
func NewValidationError(msgs ...string) error {
	if len(msgs) == 0 {
		return nil
	}
	return &ValidationError{Fields: msgs}
}

// RuleCode identifies which business rule rejected a request.
type RuleCode string

const (
	RuleEventNotBookable      RuleCode = "event_not_bookable"
	RuleEventNotPublished     RuleCode = "event_not_published"
	RuleEventStarted          RuleCode = "event_started"
	RuleEventCancelled        RuleCode = "event_cancelled"
	RuleEventNotDraft         RuleCode = "event_not_draft"
	RuleCapacityExceeded      RuleCode = "capacity_exceeded"
	RuleConferenceSingle      RuleCode = "conference_single_ticket"
	RuleDuplicateConference   RuleCode = "duplicate_conference_booking"
	RulePaymentRequired       RuleCode = "payment_required"
	RuleInvalidDay            RuleCode = "invalid_day"
	RuleAlreadyCancelled      RuleCode = "already_cancelled"
	RuleOrganizerNotApproved  RuleCode = "organizer_not_approved"
	RuleOrganizerEmailClaimed RuleCode = "organizer_email_claimed"
	RuleCustomerEmailClaimed  RuleCode = "customer_email_claimed"
)

// RuleViolation is a rejected request that broke a business rule.
type RuleViolation struct {
	Code    RuleCode
	Message string
}

func (e *RuleViolation) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Violation builds a *RuleViolation.
func Violation(code RuleCode, format string, args ...any) error {
	return &RuleViolation{Code: code, Message: fmt.Sprintf(format, args...)}
}

// IsRule reports whether err is a RuleViolation with the given code.
func IsRule(err error, code RuleCode) bool {
	var rv *RuleViolation
	return errors.As(err, &rv) && rv.Code == code
}
