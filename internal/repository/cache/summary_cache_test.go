package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"eventbooking/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSummary() *domain.OrganizerSummary {
	return &domain.OrganizerSummary{
		OrganizerID:    "org-1",
		TotalEvents:    2,
		UpcomingEvents: 1,
		Bookings:       3,
		Tickets:        7,
		Revenue:        decimal.RequireFromString("350.5"),
		Events:         []domain.EventMetrics{{EventID: "ev-1", Title: "Concert", Tickets: 7}},
		GeneratedAt:    time.Date(2026, 5, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestSummaryCache_GetHit(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	data, err := json.Marshal(sampleSummary())
	require.NoError(t, err)
	mock.ExpectGet("analytics:organizer:org-1").SetVal(string(data))

	got, ok, err := NewSummaryCache(client, time.Minute).Get(ctx, "org-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 7, got.Tickets)
	assert.True(t, got.Revenue.Equal(decimal.RequireFromString("350.5")))
	require.Len(t, got.Events, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryCache_GetMiss(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("analytics:organizer:org-1").RedisNil()

	got, ok, err := NewSummaryCache(client, time.Minute).Get(ctx, "org-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSummaryCache_GetError(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	mock.ExpectGet("analytics:organizer:org-1").SetErr(errors.New("connection refused"))

	_, ok, err := NewSummaryCache(client, time.Minute).Get(ctx, "org-1")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestSummaryCache_SetAndInvalidate(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	s := sampleSummary()
	data, err := json.Marshal(s)
	require.NoError(t, err)
	mock.ExpectSet("analytics:organizer:org-1", string(data), 5*time.Minute).SetVal("OK")
	mock.ExpectDel("analytics:organizer:org-1").SetVal(1)

	c := NewSummaryCache(client, 5*time.Minute)
	require.NoError(t, c.Set(ctx, s))
	require.NoError(t, c.Invalidate(ctx, "org-1"))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck(t *testing.T) {
	client, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")
	require.NoError(t, HealthCheck(context.Background(), client))

	mock.ExpectPing().SetErr(errors.New("down"))
	require.Error(t, HealthCheck(context.Background(), client))
}

func TestNoopCache(t *testing.T) {
	c := NewNoopCache()
	_, ok, err := c.Get(context.Background(), "org-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, c.Set(context.Background(), sampleSummary()))
	assert.NoError(t, c.Invalidate(context.Background(), "org-1"))
}
