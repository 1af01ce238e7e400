package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventbooking/internal/clock"
	"eventbooking/internal/domain"

	"github.com/google/uuid"
)

type eventService struct {
	tx             domain.Transactor
	eventRepo      domain.EventRepository
	venueRepo      domain.VenueRepository
	bookingRepo    domain.BookingRepository
	organizerRepo  domain.OrganizerRepository
	cache          domain.SummaryCache
	who            principals
	clock          clock.Clock
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewEventService(
	tx domain.Transactor,
	eventRepo domain.EventRepository,
	venueRepo domain.VenueRepository,
	bookingRepo domain.BookingRepository,
	organizerRepo domain.OrganizerRepository,
	profileRepo domain.ProfileRepository,
	cache domain.SummaryCache,
	clk clock.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		tx:             tx,
		eventRepo:      eventRepo,
		venueRepo:      venueRepo,
		bookingRepo:    bookingRepo,
		organizerRepo:  organizerRepo,
		cache:          cache,
		who:            principals{profiles: profileRepo, organizers: organizerRepo, clock: clk},
		clock:          clk,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// venueFor loads the venue and checks it belongs to organizerID.
func (s *eventService) venueFor(ctx context.Context, venueID, organizerID string) (*domain.Venue, error) {
	venue, err := s.venueRepo.GetByID(ctx, venueID)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	if venue.OrganizerID != organizerID {
		return nil, domain.ErrForbidden
	}
	return venue, nil
}

func applyInput(e *domain.Event, in domain.EventInput) {
	e.Title = in.Title
	e.Description = in.Description
	e.Type = in.Type
	e.Capacity = in.Capacity
	e.TicketPrice = in.TicketPrice
	e.StartTime = in.StartTime.UTC()
	e.EndTime = in.EndTime.UTC()
	e.VenueID = in.VenueID
}

func checkVenueCapacity(e *domain.Event, v *domain.Venue) error {
	if e.Capacity != nil && v.Capacity > 0 && *e.Capacity > v.Capacity {
		return domain.NewValidationError(fmt.Sprintf("capacity exceeds venue capacity of %d", v.Capacity))
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, actor domain.Actor, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	org, err := s.who.organizerOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	event := &domain.Event{
		ID:          uuid.NewString(),
		Status:      domain.EventStatusDraft,
		OrganizerID: org.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	applyInput(event, in)
	if err := event.Validate(now, true); err != nil {
		return nil, err
	}
	venue, err := s.venueFor(ctx, in.VenueID, org.ID)
	if err != nil {
		return nil, err
	}
	if err := checkVenueCapacity(event, venue); err != nil {
		return nil, err
	}
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return event, nil
}

// UpdateEvent locks the event so the capacity check against sold tickets cannot race a booking.
func (s *eventService) UpdateEvent(ctx context.Context, actor domain.Actor, eventID string, in domain.EventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var updated *domain.Event
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		event, err := s.lockManaged(ctx, actor, eventID)
		if err != nil {
			return err
		}
		if event.Status == domain.EventStatusCancelled {
			return domain.Violation(domain.RuleEventCancelled, "cancelled events cannot be edited")
		}
		sold, err := s.bookingRepo.SumActiveQuantity(ctx, event.ID)
		if err != nil {
			return fmt.Errorf("sum active tickets: %w", err)
		}
		if sold > 0 && in.Type != event.Type {
			return domain.NewValidationError("type cannot change once tickets are booked")
		}
		if in.Capacity != nil && *in.Capacity < sold {
			return domain.Violation(domain.RuleCapacityExceeded, "capacity cannot drop below the %d tickets already booked", sold)
		}

		now := s.clock.Now()
		startChanged := !in.StartTime.Equal(event.StartTime)
		applyInput(event, in)
		event.UpdatedAt = now
		if err := event.Validate(now, startChanged); err != nil {
			return err
		}
		venue, err := s.venueFor(ctx, event.VenueID, event.OrganizerID)
		if err != nil {
			return err
		}
		if err := checkVenueCapacity(event, venue); err != nil {
			return err
		}
		if err := s.eventRepo.Update(ctx, event); err != nil {
			return fmt.Errorf("update event: %w", err)
		}
		updated = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, updated.OrganizerID)
	return updated, nil
}

func (s *eventService) lockManaged(ctx context.Context, actor domain.Actor, eventID string) (*domain.Event, error) {
	event, err := s.eventRepo.GetForUpdate(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := s.who.canManage(ctx, actor, event.OrganizerID); err != nil {
		return nil, err
	}
	return event, nil
}

func (s *eventService) PublishEvent(ctx context.Context, actor domain.Actor, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var published *domain.Event
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		event, err := s.lockManaged(ctx, actor, eventID)
		if err != nil {
			return err
		}
		if event.Status != domain.EventStatusDraft {
			return domain.Violation(domain.RuleEventNotDraft, "only draft events can be published, event is %s", event.Status)
		}
		org, err := s.organizerRepo.GetByID(ctx, event.OrganizerID)
		if err != nil {
			return fmt.Errorf("get organizer: %w", err)
		}
		if org.Status != domain.OrganizerApproved {
			return domain.Violation(domain.RuleOrganizerNotApproved, "organizer is %s", org.Status)
		}
		now := s.clock.Now()
		if !event.StartTime.After(now) {
			return domain.Violation(domain.RuleEventStarted, "events cannot be published after they start")
		}
		if err := event.Validate(now, false); err != nil {
			return err
		}
		event.Status = domain.EventStatusPublished
		event.UpdatedAt = now
		if err := s.eventRepo.Update(ctx, event); err != nil {
			return fmt.Errorf("publish event: %w", err)
		}
		published = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, published.OrganizerID)
	return published, nil
}

// CancelEvent is the soft delete. Bookings and payments are kept for reporting.
func (s *eventService) CancelEvent(ctx context.Context, actor domain.Actor, eventID string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	var cancelled *domain.Event
	err := s.tx.WithTx(ctx, func(ctx context.Context) error {
		event, err := s.lockManaged(ctx, actor, eventID)
		if err != nil {
			return err
		}
		if event.Status == domain.EventStatusCancelled {
			return domain.Violation(domain.RuleEventCancelled, "event is already cancelled")
		}
		event.Status = domain.EventStatusCancelled
		event.UpdatedAt = s.clock.Now()
		if err := s.eventRepo.Update(ctx, event); err != nil {
			return fmt.Errorf("cancel event: %w", err)
		}
		cancelled = event
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, cancelled.OrganizerID)
	return cancelled, nil
}

// GetEvent hides drafts from everyone but their organizer and admins.
func (s *eventService) GetEvent(ctx context.Context, actor domain.Actor, eventID string) (*domain.EventDetails, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event.Status == domain.EventStatusDraft {
		if err := s.who.canManage(ctx, actor, event.OrganizerID); err != nil {
			return nil, domain.ErrNotFound
		}
	}
	venue, err := s.venueRepo.GetByID(ctx, event.VenueID)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	details := &domain.EventDetails{Event: event, Venue: venue}
	if event.Capacity != nil {
		sold, err := s.bookingRepo.SumActiveQuantity(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("sum active tickets: %w", err)
		}
		remaining := max(*event.Capacity-sold, 0)
		details.Remaining = &remaining
	}
	if event.MultiDay() {
		details.Days = event.Days()
	}
	return details, nil
}

func (s *eventService) ListUpcoming(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	params = params.Normalize()
	events, total, err := s.eventRepo.ListPublicUpcoming(ctx, s.clock.Now(), params)
	if err != nil {
		return nil, 0, fmt.Errorf("list upcoming events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, total, nil
}

func (s *eventService) ListMine(ctx context.Context, actor domain.Actor) ([]*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	org, err := s.who.organizerOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.ListByOrganizer(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	if events == nil {
		events = []*domain.Event{}
	}
	return events, nil
}

func (s *eventService) invalidate(ctx context.Context, organizerID string) {
	if err := s.cache.Invalidate(ctx, organizerID); err != nil {
		s.logger.WarnContext(ctx, "analytics cache invalidation failed", "organizer_id", organizerID, "err", err)
	}
}
