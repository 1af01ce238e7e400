package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"eventbooking/internal/clock"
	"eventbooking/internal/domain"
	"eventbooking/internal/metrics"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BookingDeps groups the collaborators of the booking service.
type BookingDeps struct {
	Tx         domain.Transactor
	Events     domain.EventRepository
	Venues     domain.VenueRepository
	Bookings   domain.BookingRepository
	Payments   domain.PaymentRepository
	Users      domain.UserRepository
	Profiles   domain.ProfileRepository
	Customers  domain.CustomerRepository
	Organizers domain.OrganizerRepository
	Cache      domain.SummaryCache
	Email      domain.EmailService
	Clock      clock.Clock
	Logger     *slog.Logger
}

type bookingService struct {
	BookingDeps
	who            principals
	contextTimeout time.Duration
}

func NewBookingService(deps BookingDeps, timeout time.Duration) domain.BookingService {
	return &bookingService{
		BookingDeps: deps,
		who: principals{
			users:      deps.Users,
			profiles:   deps.Profiles,
			customers:  deps.Customers,
			organizers: deps.Organizers,
			clock:      deps.Clock,
		},
		contextTimeout: timeout,
	}
}

// AttemptBooking runs every rule check and the insert inside one transaction that
// holds the event row lock, so concurrent attempts on an event see each other's tickets.
func (s *bookingService) AttemptBooking(ctx context.Context, actor domain.Actor, req domain.BookingRequest) (*domain.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireUser(actor); err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	var receipt *domain.Receipt
	eventType := "unknown"
	err := s.Tx.WithTx(ctx, func(ctx context.Context) error {
		event, err := s.Events.GetForUpdate(ctx, req.EventID)
		if err != nil {
			return fmt.Errorf("lock event: %w", err)
		}
		eventType = string(event.Type)

		customer, err := s.who.customerFor(ctx, actor)
		if err != nil {
			return err
		}

		booking, payment, err := s.book(ctx, event, customer, req)
		if err != nil {
			return err
		}

		venue, err := s.Venues.GetByID(ctx, event.VenueID)
		if err != nil {
			return fmt.Errorf("get venue: %w", err)
		}
		receipt = &domain.Receipt{
			Booking:      booking,
			Event:        event,
			VenueName:    venue.Name,
			VenueAddress: venue.FullAddress(),
			Customer:     customer,
			Payment:      payment,
		}
		return nil
	})
	metrics.BookingAttempt(eventType, outcome(err))
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, receipt.Event.OrganizerID)
	s.sendReceipt(ctx, receipt)
	return receipt, nil
}

// book applies the event type rules and writes the booking and, for paid types, its payment.
func (s *bookingService) book(ctx context.Context, event *domain.Event, customer *domain.Customer, req domain.BookingRequest) (*domain.Booking, *domain.Payment, error) {
	now := s.Clock.Now()
	if event.Status != domain.EventStatusPublished {
		return nil, nil, domain.Violation(domain.RuleEventNotPublished, "event is %s", event.Status)
	}
	if !event.StartTime.After(now) {
		return nil, nil, domain.Violation(domain.RuleEventStarted, "event has already started")
	}

	policy, err := domain.PolicyFor(event.Type)
	if err != nil {
		return nil, nil, err
	}
	if !policy.Bookable() {
		return nil, nil, domain.Violation(domain.RuleEventNotBookable, "%s events cannot be booked", event.Type)
	}
	if err := policy.CheckQuantity(req.Quantity); err != nil {
		return nil, nil, err
	}
	if policy.OneActivePerCustomer() {
		has, err := s.Bookings.HasActiveBooking(ctx, customer.ID, event.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("check existing booking: %w", err)
		}
		if has {
			return nil, nil, domain.Violation(domain.RuleDuplicateConference, "you already hold a booking for this event")
		}
	}
	day, err := selectedDay(event, policy, req.SelectedDay)
	if err != nil {
		return nil, nil, err
	}
	if policy.Paid() && req.Payment == nil {
		return nil, nil, domain.Violation(domain.RulePaymentRequired, "payment details are required")
	}
	if event.Capacity != nil {
		sold, err := s.Bookings.SumActiveQuantity(ctx, event.ID)
		if err != nil {
			return nil, nil, fmt.Errorf("sum active tickets: %w", err)
		}
		if sold+req.Quantity > *event.Capacity {
			return nil, nil, domain.Violation(domain.RuleCapacityExceeded, "only %d tickets remaining", max(*event.Capacity-sold, 0))
		}
	}

	unit := policy.UnitPrice(event)
	booking := &domain.Booking{
		ID:          uuid.NewString(),
		CustomerID:  customer.ID,
		EventID:     event.ID,
		Quantity:    req.Quantity,
		UnitPrice:   unit,
		TotalPrice:  unit.Mul(decimal.NewFromInt(int64(req.Quantity))),
		Status:      domain.BookingActive,
		SelectedDay: day,
		BookedAt:    now,
	}
	if err := s.Bookings.Create(ctx, booking); err != nil {
		return nil, nil, fmt.Errorf("create booking: %w", err)
	}
	if !policy.Paid() {
		return booking, nil, nil
	}

	payment := &domain.Payment{
		ID:         uuid.NewString(),
		BookingID:  booking.ID,
		CustomerID: customer.ID,
		Amount:     booking.TotalPrice,
		Method:     req.Payment.Method,
		CardMasked: domain.MaskCard(req.Payment.CardNumber),
		PaidAt:     now,
	}
	if err := s.Payments.Create(ctx, payment); err != nil {
		return nil, nil, fmt.Errorf("create payment: %w", err)
	}
	return booking, payment, nil
}

// selectedDay resolves the day offset of a multi-day concert. Types without day
// selection ignore the field.
func selectedDay(event *domain.Event, policy domain.EventTypePolicy, offset *int) (*time.Time, error) {
	if !policy.SupportsDaySelection() {
		return nil, nil
	}
	days := event.Days()
	if offset == nil {
		if len(days) > 1 {
			return nil, domain.Violation(domain.RuleInvalidDay, "selected_day is required for multi-day events (0-%d)", len(days)-1)
		}
		return nil, nil
	}
	if *offset < 0 || *offset >= len(days) {
		return nil, domain.Violation(domain.RuleInvalidDay, "selected_day must be between 0 and %d", len(days)-1)
	}
	day := days[*offset]
	return &day, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor.IsGuest() {
		return nil, domain.ErrUnauthorized
	}

	var booking *domain.Booking
	var organizerID string
	err := s.Tx.WithTx(ctx, func(ctx context.Context) error {
		b, err := s.Bookings.GetByID(ctx, bookingID)
		if err != nil {
			return fmt.Errorf("get booking: %w", err)
		}
		if err := s.ownsBooking(ctx, actor, b); err != nil {
			return err
		}
		if b.Status == domain.BookingCancelled {
			return domain.Violation(domain.RuleAlreadyCancelled, "booking is already cancelled")
		}
		event, err := s.Events.GetByID(ctx, b.EventID)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		now := s.Clock.Now()
		if !actor.IsAdmin() && !event.StartTime.After(now) {
			return domain.Violation(domain.RuleEventStarted, "bookings cannot be cancelled after the event starts")
		}
		ok, err := s.Bookings.Cancel(ctx, b.ID, now)
		if err != nil {
			return fmt.Errorf("cancel booking: %w", err)
		}
		if !ok {
			return domain.Violation(domain.RuleAlreadyCancelled, "booking is already cancelled")
		}
		b.Status = domain.BookingCancelled
		b.CancelledAt = &now
		booking = b
		organizerID = event.OrganizerID
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.BookingCancelled()
	s.invalidate(ctx, organizerID)
	return booking, nil
}

// ownsBooking allows admins and the customer the booking belongs to.
func (s *bookingService) ownsBooking(ctx context.Context, actor domain.Actor, b *domain.Booking) error {
	if actor.IsAdmin() {
		return nil
	}
	customerID, err := s.who.customerID(ctx, actor)
	if err != nil {
		return err
	}
	if customerID == "" || customerID != b.CustomerID {
		return domain.ErrForbidden
	}
	return nil
}

func (s *bookingService) GetReceipt(ctx context.Context, actor domain.Actor, bookingID string) (*domain.Receipt, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if actor.IsGuest() {
		return nil, domain.ErrUnauthorized
	}
	b, err := s.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("get booking: %w", err)
	}
	if err := s.ownsBooking(ctx, actor, b); err != nil {
		return nil, err
	}
	event, err := s.Events.GetByID(ctx, b.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	venue, err := s.Venues.GetByID(ctx, event.VenueID)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	customer, err := s.Customers.GetByID(ctx, b.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("get customer: %w", err)
	}
	payment, err := s.Payments.GetByBookingID(ctx, b.ID)
	if errors.Is(err, domain.ErrNotFound) {
		payment = nil
	} else if err != nil {
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return &domain.Receipt{
		Booking:      b,
		Event:        event,
		VenueName:    venue.Name,
		VenueAddress: venue.FullAddress(),
		Customer:     customer,
		Payment:      payment,
	}, nil
}

func (s *bookingService) ListMine(ctx context.Context, actor domain.Actor) ([]*domain.BookingWithEvent, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireUser(actor); err != nil {
		return nil, err
	}
	customerID, err := s.who.customerID(ctx, actor)
	if err != nil {
		return nil, err
	}
	out := []*domain.BookingWithEvent{}
	if customerID == "" {
		return out, nil
	}
	bookings, err := s.Bookings.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	events := make(map[string]*domain.Event)
	for _, b := range bookings {
		ev, ok := events[b.EventID]
		if !ok {
			ev, err = s.Events.GetByID(ctx, b.EventID)
			if err != nil {
				return nil, fmt.Errorf("get event %s: %w", b.EventID, err)
			}
			events[b.EventID] = ev
		}
		out = append(out, &domain.BookingWithEvent{Booking: b, Event: ev})
	}
	return out, nil
}

var attendeeCSVHeader = []string{"booking_id", "customer_name", "customer_email", "ticket_qty", "status", "total_price", "selected_day", "booked_at"}

// ExportAttendees writes every booking of the event, cancelled ones included, as CSV.
// ListForOrganizer lists bookings on the actor's own events, optionally for one event.
func (s *bookingService) ListForOrganizer(ctx context.Context, actor domain.Actor, eventID string) ([]*domain.OrganizerBooking, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := requireUser(actor); err != nil {
		return nil, err
	}
	organizerID, err := s.who.organizerID(ctx, actor)
	if err != nil {
		return nil, err
	}
	if organizerID == "" {
		return nil, domain.ErrForbidden
	}
	if eventID != "" {
		event, err := s.Events.GetByID(ctx, eventID)
		if err != nil {
			return nil, fmt.Errorf("get event: %w", err)
		}
		if event.OrganizerID != organizerID {
			return nil, domain.ErrForbidden
		}
	}
	list, err := s.Bookings.ListForOrganizer(ctx, organizerID, eventID)
	if err != nil {
		return nil, fmt.Errorf("list organizer bookings: %w", err)
	}
	return list, nil
}

func (s *bookingService) ExportAttendees(ctx context.Context, actor domain.Actor, eventID string, w io.Writer) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.Events.GetByID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("get event: %w", err)
	}
	if err := s.who.canManage(ctx, actor, event.OrganizerID); err != nil {
		return err
	}
	attendees, err := s.Bookings.ListAttendees(ctx, eventID)
	if err != nil {
		return fmt.Errorf("list attendees: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(attendeeCSVHeader); err != nil {
		return err
	}
	for _, a := range attendees {
		day := ""
		if a.SelectedDay != nil {
			day = a.SelectedDay.Format(time.DateOnly)
		}
		record := []string{
			a.BookingID,
			a.CustomerName,
			a.CustomerEmail,
			strconv.Itoa(a.Quantity),
			string(a.Status),
			a.TotalPrice.StringFixed(2),
			day,
			a.BookedAt.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func (s *bookingService) invalidate(ctx context.Context, organizerID string) {
	if err := s.Cache.Invalidate(ctx, organizerID); err != nil {
		s.Logger.WarnContext(ctx, "analytics cache invalidation failed", "organizer_id", organizerID, "err", err)
	}
}

func (s *bookingService) sendReceipt(ctx context.Context, r *domain.Receipt) {
	data := &domain.BookingReceiptEmailData{
		Email:        r.Customer.Email,
		CustomerName: r.Customer.Name,
		EventTitle:   r.Event.Title,
		StartTime:    r.Event.StartTime,
		VenueAddress: r.VenueAddress,
		Quantity:     r.Booking.Quantity,
		Total:        r.Booking.TotalPrice.StringFixed(2),
	}
	if r.Payment != nil {
		data.Method = r.Payment.CardMasked
	}
	if err := s.Email.SendBookingReceipt(ctx, data); err != nil {
		s.Logger.WarnContext(ctx, "booking receipt e-mail failed", "booking_id", r.Booking.ID, "err", err)
	}
}

func outcome(err error) string {
	var rv *domain.RuleViolation
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return metrics.ResultSuccess
	case errors.As(err, &rv), errors.As(err, &ve):
		return metrics.ResultRejected
	default:
		return metrics.ResultError
	}
}
