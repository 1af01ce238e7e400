package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// EventType selects the booking and pricing rules of an event.
type EventType string

const (
	EventTypeExhibition EventType = "EXHIBITION"
	EventTypeConference EventType = "CONFERENCE"
	EventTypeConcert    EventType = "CONCERT"
	EventTypeSportsGame EventType = "SPORTS_GAME"
)

// EventTypes lists every event type.
var EventTypes = []EventType{EventTypeExhibition, EventTypeConference, EventTypeConcert, EventTypeSportsGame}

// EventTypePolicy is the per-type rule set. The set of implementations is closed:
// PolicyFor is the only constructor and switches over every EventType.
type EventTypePolicy interface {
	// Bookable is false for types that never accept bookings.
	Bookable() bool
	// Paid types need payment details and produce a Payment.
	Paid() bool
	// OneActivePerCustomer limits a customer to a single active booking per event.
	OneActivePerCustomer() bool
	// SupportsDaySelection is true when multi-day events require a chosen day.
	SupportsDaySelection() bool
	ValidateListing(e *Event) []string
	CheckQuantity(qty int) error
	UnitPrice(e *Event) decimal.Decimal

	sealed()
}

// PolicyFor returns the rule set for t.
func PolicyFor(t EventType) (EventTypePolicy, error) {
	switch t {
	case EventTypeExhibition:
		return exhibitionPolicy{}, nil
	case EventTypeConference:
		return conferencePolicy{}, nil
	case EventTypeConcert:
		return paidPolicy{daySelection: true}, nil
	case EventTypeSportsGame:
		return paidPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown event type %q", t)
}

// Exhibitions are walk-in: listed but never booked.
type exhibitionPolicy struct{}

func (exhibitionPolicy) Bookable() bool             { return false }
func (exhibitionPolicy) Paid() bool                 { return false }
func (exhibitionPolicy) OneActivePerCustomer() bool { return false }
func (exhibitionPolicy) SupportsDaySelection() bool { return false }
func (exhibitionPolicy) sealed()                    {}

func (exhibitionPolicy) ValidateListing(e *Event) []string {
	if !e.TicketPrice.IsZero() {
		return []string{"exhibition ticket_price must be 0"}
	}
	return nil
}

func (exhibitionPolicy) CheckQuantity(int) error { return nil }

func (exhibitionPolicy) UnitPrice(*Event) decimal.Decimal { return decimal.Zero }

// Conferences are free, one seat per customer.
type conferencePolicy struct{}

func (conferencePolicy) Bookable() bool             { return true }
func (conferencePolicy) Paid() bool                 { return false }
func (conferencePolicy) OneActivePerCustomer() bool { return true }
func (conferencePolicy) SupportsDaySelection() bool { return false }
func (conferencePolicy) sealed()                    {}

func (conferencePolicy) ValidateListing(e *Event) []string {
	var errs []string
	if e.Capacity == nil {
		errs = append(errs, "conference capacity is required")
	}
	if !e.TicketPrice.IsZero() {
		errs = append(errs, "conference ticket_price must be 0")
	}
	return errs
}

func (conferencePolicy) CheckQuantity(qty int) error {
	if qty != 1 {
		return Violation(RuleConferenceSingle, "conference bookings are limited to one ticket")
	}
	return nil
}

func (conferencePolicy) UnitPrice(*Event) decimal.Decimal { return decimal.Zero }

// Concerts and sports games are ticketed.
type paidPolicy struct {
	daySelection bool
}

func (paidPolicy) Bookable() bool               { return true }
func (paidPolicy) Paid() bool                   { return true }
func (paidPolicy) OneActivePerCustomer() bool   { return false }
func (p paidPolicy) SupportsDaySelection() bool { return p.daySelection }
func (paidPolicy) sealed()                      {}

func (paidPolicy) ValidateListing(e *Event) []string {
	var errs []string
	if e.Capacity == nil {
		errs = append(errs, "capacity is required for paid events")
	}
	if !e.TicketPrice.IsPositive() {
		errs = append(errs, "ticket_price must be positive for paid events")
	}
	return errs
}

func (paidPolicy) CheckQuantity(int) error { return nil }

func (paidPolicy) UnitPrice(e *Event) decimal.Decimal { return e.TicketPrice }
