package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventbooking/internal/clock"
	"eventbooking/internal/domain"

	"github.com/google/uuid"
)

type venueService struct {
	venueRepo      domain.VenueRepository
	who            principals
	clock          clock.Clock
	contextTimeout time.Duration
}

func NewVenueService(venueRepo domain.VenueRepository, profileRepo domain.ProfileRepository, organizerRepo domain.OrganizerRepository, clk clock.Clock, timeout time.Duration) domain.VenueService {
	return &venueService{
		venueRepo:      venueRepo,
		who:            principals{profiles: profileRepo, organizers: organizerRepo, clock: clk},
		clock:          clk,
		contextTimeout: timeout,
	}
}

func trimVenue(v *domain.Venue) {
	v.Name = strings.TrimSpace(v.Name)
	v.Address = strings.TrimSpace(v.Address)
	v.City = strings.TrimSpace(v.City)
	v.State = strings.TrimSpace(v.State)
	v.Zipcode = strings.TrimSpace(v.Zipcode)
	v.Country = strings.TrimSpace(v.Country)
}

// CreateVenue assigns an ID and the caller's organizer to venue.
func (s *venueService) CreateVenue(ctx context.Context, actor domain.Actor, venue *domain.Venue) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	org, err := s.who.organizerOf(ctx, actor)
	if err != nil {
		return err
	}
	trimVenue(venue)
	if err := venue.Validate(); err != nil {
		return err
	}
	now := s.clock.Now()
	venue.ID = uuid.NewString()
	venue.OrganizerID = org.ID
	venue.CreatedAt = now
	venue.UpdatedAt = now
	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return fmt.Errorf("create venue: %w", err)
	}
	return nil
}

// UpdateVenue replaces the editable fields of venue.ID. Owner and timestamps are kept.
func (s *venueService) UpdateVenue(ctx context.Context, actor domain.Actor, venue *domain.Venue) (*domain.Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	existing, err := s.venueRepo.GetByID(ctx, venue.ID)
	if err != nil {
		return nil, fmt.Errorf("get venue: %w", err)
	}
	if err := s.who.canManage(ctx, actor, existing.OrganizerID); err != nil {
		return nil, err
	}
	trimVenue(venue)
	if err := venue.Validate(); err != nil {
		return nil, err
	}
	venue.OrganizerID = existing.OrganizerID
	venue.CreatedAt = existing.CreatedAt
	venue.UpdatedAt = s.clock.Now()
	if err := s.venueRepo.Update(ctx, venue); err != nil {
		return nil, fmt.Errorf("update venue: %w", err)
	}
	return venue, nil
}

func (s *venueService) ListMine(ctx context.Context, actor domain.Actor) ([]*domain.Venue, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	org, err := s.who.organizerOf(ctx, actor)
	if err != nil {
		return nil, err
	}
	venues, err := s.venueRepo.ListByOrganizer(ctx, org.ID)
	if err != nil {
		return nil, fmt.Errorf("list venues: %w", err)
	}
	if venues == nil {
		venues = []*domain.Venue{}
	}
	return venues, nil
}
