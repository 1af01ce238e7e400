package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventbooking/internal/clock"
	"eventbooking/internal/domain"
)

// Keyword lists are checked in order; the first list with a hit decides the intent.
var intentKeywords = []struct {
	intent   domain.QueryIntent
	keywords []string
}{
	{domain.IntentOrganizerStats, []string{"revenue", "sales", "sold", "earn", "analytics", "attendance", "my events", "organiz", "how many people"}},
	{domain.IntentBookingStats, []string{"booking", "booked", "ticket", "reservation", "reserved", "cancel", "my order", "receipt", "paid"}},
	{domain.IntentEventLookup, []string{"event", "concert", "conference", "exhibition", "game", "match", "show", "upcoming", "happening", "venue", "where", "when", "price", "cost"}},
}

// ClassifyQuestion sorts a question into an intent by keyword matching.
func ClassifyQuestion(question string) domain.QueryIntent {
	q := strings.ToLower(question)
	for _, group := range intentKeywords {
		for _, kw := range group.keywords {
			if strings.Contains(q, kw) {
				return group.intent
			}
		}
	}
	return domain.IntentUnknown
}

type queryContextBuilder struct {
	reader     domain.SnapshotReader
	profiles   domain.ProfileRepository
	organizers domain.OrganizerRepository
	clock      clock.Clock
}

// NewQueryContextBuilder returns a builder that reads through reader inside a read-only
// transaction. The question is only used for classification and never reaches a query.
func NewQueryContextBuilder(reader domain.SnapshotReader, profiles domain.ProfileRepository, organizers domain.OrganizerRepository, clk clock.Clock) domain.QueryContextBuilder {
	return &queryContextBuilder{reader: reader, profiles: profiles, organizers: organizers, clock: clk}
}

func (b *queryContextBuilder) Build(ctx context.Context, actor domain.Actor, question string) (domain.QueryContext, error) {
	intent := ClassifyQuestion(question)
	if intent == domain.IntentUnknown {
		return domain.QueryContext{Intent: intent}, nil
	}

	var text string
	err := b.reader.ReadOnly(ctx, func(ctx context.Context) error {
		role, organizerID, err := b.role(ctx, actor)
		if err != nil {
			return err
		}
		var sb strings.Builder
		fmt.Fprintf(&sb, "USER ROLE: %s\n", role)

		switch intent {
		case domain.IntentEventLookup:
			err = b.writeUpcoming(ctx, &sb)
		case domain.IntentBookingStats:
			err = b.writeBookings(ctx, &sb, actor)
		case domain.IntentOrganizerStats:
			err = b.writeOrganizerEvents(ctx, &sb, organizerID)
		}
		text = strings.TrimRight(sb.String(), "\n")
		return err
	})
	if err != nil {
		return domain.QueryContext{}, fmt.Errorf("build query context: %w", err)
	}
	return domain.QueryContext{Intent: intent, Text: text}, nil
}

// role returns guest, admin, organizer or participant, plus the organizer id for organizers.
func (b *queryContextBuilder) role(ctx context.Context, actor domain.Actor) (string, string, error) {
	switch {
	case actor.IsGuest():
		return "guest", "", nil
	case actor.IsAdmin():
		return "admin", "", nil
	}
	who := principals{profiles: b.profiles, organizers: b.organizers}
	org, err := who.organizerOf(ctx, actor)
	switch {
	case err == nil:
		return "organizer", org.ID, nil
	case errors.Is(err, domain.ErrForbidden), domain.IsRule(err, domain.RuleOrganizerNotApproved):
		return "participant", "", nil
	default:
		return "", "", err
	}
}

func (b *queryContextBuilder) writeUpcoming(ctx context.Context, sb *strings.Builder) error {
	events, err := b.reader.UpcomingEvents(ctx, b.clock.Now(), domain.ContextEventLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintf(sb, "UPCOMING PUBLISHED EVENTS: none found.\n")
		return nil
	}
	fmt.Fprintf(sb, "UPCOMING PUBLISHED EVENTS (max %d):\n", domain.ContextEventLimit)
	for _, e := range events {
		fmt.Fprintf(sb, "- Event #%s: '%s' (%s) @ %s, starts %s, status=%s, capacity=%s, price=%s\n",
			e.ID, e.Title, e.Type, e.VenueName, formatContextTime(e.StartTime), e.Status, formatCapacity(e.Capacity), e.TicketPrice.StringFixed(2))
	}
	return nil
}

func (b *queryContextBuilder) writeBookings(ctx context.Context, sb *strings.Builder, actor domain.Actor) error {
	if !actor.IsUser() {
		fmt.Fprintf(sb, "BOOKINGS FOR THIS USER: not signed in.\n")
		return nil
	}
	who := principals{profiles: b.profiles}
	customerID, err := who.customerID(ctx, actor)
	if err != nil {
		return err
	}
	var bookings []domain.BookingSnapshot
	if customerID != "" {
		if bookings, err = b.reader.CustomerBookings(ctx, customerID, domain.ContextBookingLimit); err != nil {
			return err
		}
	}
	if len(bookings) == 0 {
		fmt.Fprintf(sb, "BOOKINGS FOR THIS USER: none found.\n")
		return nil
	}
	fmt.Fprintf(sb, "BOOKINGS FOR THIS USER (max %d):\n", domain.ContextBookingLimit)
	for _, bk := range bookings {
		fmt.Fprintf(sb, "- Booking #%s for event #%s '%s', tickets=%d, status=%s, total=%s, booked_at=%s\n",
			bk.ID, bk.EventID, bk.EventTitle, bk.Quantity, bk.Status, bk.TotalPrice.StringFixed(2), formatContextTime(bk.BookedAt))
	}
	return nil
}

func (b *queryContextBuilder) writeOrganizerEvents(ctx context.Context, sb *strings.Builder, organizerID string) error {
	if organizerID == "" {
		fmt.Fprintf(sb, "EVENTS OWNED BY THIS ORGANIZER: user is not an approved organizer.\n")
		return nil
	}
	events, err := b.reader.OrganizerEvents(ctx, organizerID, domain.ContextOrganizerEventLimit)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintf(sb, "EVENTS OWNED BY THIS ORGANIZER: none found.\n")
		return nil
	}
	fmt.Fprintf(sb, "EVENTS OWNED BY THIS ORGANIZER (max %d):\n", domain.ContextOrganizerEventLimit)
	for _, e := range events {
		fmt.Fprintf(sb, "- Event #%s: '%s' (%s) @ %s, starts %s, status=%s, bookings=%d, capacity=%s, price=%s\n",
			e.ID, e.Title, e.Type, e.VenueName, formatContextTime(e.StartTime), e.Status, e.Bookings, formatCapacity(e.Capacity), e.TicketPrice.StringFixed(2))
	}
	return nil
}

func formatContextTime(t time.Time) string {
	return t.UTC().Format("2006-01-02 15:04 UTC")
}

func formatCapacity(c *int) string {
	if c == nil {
		return "unlimited"
	}
	return fmt.Sprint(*c)
}
