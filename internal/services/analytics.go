package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"eventbooking/internal/clock"
	"eventbooking/internal/domain"

	"github.com/shopspring/decimal"
)

const maxTrendMonths = 24

type analyticsService struct {
	repo           domain.AnalyticsRepository
	organizers     domain.OrganizerRepository
	cache          domain.SummaryCache
	who            principals
	clock          clock.Clock
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewAnalyticsService(
	repo domain.AnalyticsRepository,
	organizers domain.OrganizerRepository,
	profiles domain.ProfileRepository,
	cache domain.SummaryCache,
	clk clock.Clock,
	logger *slog.Logger,
	timeout time.Duration,
) domain.AnalyticsService {
	return &analyticsService{
		repo:           repo,
		organizers:     organizers,
		cache:          cache,
		who:            principals{profiles: profiles, organizers: organizers, clock: clk},
		clock:          clk,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *analyticsService) authorize(ctx context.Context, actor domain.Actor, organizerID string) error {
	if err := s.who.canManage(ctx, actor, organizerID); err != nil {
		return err
	}
	if _, err := s.organizers.GetByID(ctx, organizerID); err != nil {
		return fmt.Errorf("get organizer: %w", err)
	}
	return nil
}

// OrganizerSummary totals Active bookings per event. Results are cached until the
// next booking or cancellation on one of the organizer's events. A Set racing an
// Invalidate may store a summary that predates the change; such an entry lives
// at most the cache TTL. Upcoming flags are recomputed on every read.
func (s *analyticsService) OrganizerSummary(ctx context.Context, actor domain.Actor, organizerID string) (*domain.OrganizerSummary, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.authorize(ctx, actor, organizerID); err != nil {
		return nil, err
	}

	cached, ok, err := s.cache.Get(ctx, organizerID)
	if err != nil {
		s.logger.WarnContext(ctx, "analytics cache read failed", "organizer_id", organizerID, "err", err)
	} else if ok {
		markUpcoming(cached, s.clock.Now())
		return cached, nil
	}

	rows, err := s.repo.EventMetrics(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("event metrics: %w", err)
	}
	summary := summarize(organizerID, rows, s.clock.Now())

	if err := s.cache.Set(ctx, summary); err != nil {
		s.logger.WarnContext(ctx, "analytics cache write failed", "organizer_id", organizerID, "err", err)
	}
	return summary, nil
}

func summarize(organizerID string, rows []domain.EventMetrics, now time.Time) *domain.OrganizerSummary {
	summary := &domain.OrganizerSummary{
		OrganizerID:  organizerID,
		Revenue:      decimal.Zero,
		GrossRevenue: decimal.Zero,
		Events:       make([]domain.EventMetrics, 0, len(rows)),
		GeneratedAt:  now,
	}
	for _, m := range rows {
		summary.TotalEvents++
		summary.Bookings += m.Bookings
		summary.Tickets += m.Tickets
		summary.Revenue = summary.Revenue.Add(m.Revenue)
		summary.GrossBookings += m.GrossBookings
		summary.GrossTickets += m.GrossTickets
		summary.GrossRevenue = summary.GrossRevenue.Add(m.GrossRevenue)
		summary.Events = append(summary.Events, m)
	}
	markUpcoming(summary, now)
	return summary
}

// markUpcoming derives the time-dependent fields of summary as of now.
func markUpcoming(summary *domain.OrganizerSummary, now time.Time) {
	summary.UpcomingEvents = 0
	for i := range summary.Events {
		m := &summary.Events[i]
		m.Upcoming = m.Status == domain.EventStatusPublished && m.StartTime.After(now)
		if m.Upcoming {
			summary.UpcomingEvents++
		}
	}
}

// MonthlyTrend returns exactly months entries, oldest first, ending with the current month.
// Months without Active bookings are zero.
func (s *analyticsService) MonthlyTrend(ctx context.Context, actor domain.Actor, organizerID string, months int) ([]domain.MonthlyPoint, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if months <= 0 {
		months = domain.TrendMonths
	}
	if months > maxTrendMonths {
		return nil, domain.NewValidationError(fmt.Sprintf("months must be between 1 and %d", maxTrendMonths))
	}
	if err := s.authorize(ctx, actor, organizerID); err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	since := current.AddDate(0, -(months - 1), 0)

	rows, err := s.repo.MonthlyActive(ctx, organizerID, since)
	if err != nil {
		return nil, fmt.Errorf("monthly trend: %w", err)
	}
	return fillMonths(since, months, rows), nil
}

type yearMonth struct {
	year  int
	month time.Month
}

func fillMonths(since time.Time, months int, rows []domain.MonthlyPoint) []domain.MonthlyPoint {
	byMonth := make(map[yearMonth]domain.MonthlyPoint, len(rows))
	for _, r := range rows {
		m := r.Month.UTC()
		byMonth[yearMonth{m.Year(), m.Month()}] = r
	}
	out := make([]domain.MonthlyPoint, months)
	for i := range out {
		month := since.AddDate(0, i, 0)
		p, ok := byMonth[yearMonth{month.Year(), month.Month()}]
		if !ok {
			p = domain.MonthlyPoint{Revenue: decimal.Zero}
		}
		p.Month = month
		out[i] = p
	}
	return out
}
