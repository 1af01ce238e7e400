package postgres

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"eventbooking/internal/domain"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingRepository_SumActiveQuantity(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT COALESCE\(SUM\(ticket_qty\), 0\) FROM bookings WHERE event_id = \$1 AND status = 'ACTIVE'`).
		WithArgs("ev-1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(7))

	total, err := NewBookingRepository(db).SumActiveQuantity(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, 7, total)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_Cancel(t *testing.T) {
	ctx := context.Background()
	at := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		affected int64
		want     bool
	}{
		{name: "active booking cancelled", affected: 1, want: true},
		{name: "already cancelled", affected: 0, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, err := sqlmock.New()
			require.NoError(t, err)
			defer db.Close()

			mock.ExpectExec(`UPDATE bookings SET status = 'CANCELLED', cancelled_at = \$1 WHERE id = \$2 AND status = 'ACTIVE'`).
				WithArgs(at, "bk-1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))

			ok, err := NewBookingRepository(db).Cancel(ctx, "bk-1", at)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ok)
			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestBookingRepository_GetByID(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	booked := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	day := time.Date(2026, 7, 11, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`FROM bookings WHERE id = \$1`).
		WithArgs("bk-1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "customer_id", "event_id", "ticket_qty", "unit_price",
			"total_price", "status", "selected_day", "booked_at", "cancelled_at"}).
			AddRow("bk-1", "cus-1", "ev-1", 3, "50.00", "150.00", "ACTIVE", day, booked, nil))

	b, err := NewBookingRepository(db).GetByID(ctx, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, domain.BookingActive, b.Status)
	assert.True(t, b.TotalPrice.Equal(decimal.NewFromInt(150)))
	require.NotNil(t, b.SelectedDay)
	assert.Equal(t, day, *b.SelectedDay)
	assert.Nil(t, b.CancelledAt)
}

func TestTransactor_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	booked := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO bookings`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`INSERT INTO payments`).WillReturnError(sql.ErrConnDone)
	mock.ExpectRollback()

	bookings := NewBookingRepository(db)
	payments := NewPaymentRepository(db)
	err = NewTransactor(db).WithTx(ctx, func(txCtx context.Context) error {
		if err := bookings.Create(txCtx, &domain.Booking{ID: "bk-1", Quantity: 1, Status: domain.BookingActive, BookedAt: booked}); err != nil {
			return err
		}
		return payments.Create(txCtx, &domain.Payment{ID: "pay-1", BookingID: "bk-1", PaidAt: booked})
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrConnDone))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactor_Commits(t *testing.T) {
	ctx := context.Background()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`FOR UPDATE`).WillReturnError(sql.ErrNoRows)
	mock.ExpectCommit()

	err = NewTransactor(db).WithTx(ctx, func(txCtx context.Context) error {
		_, err := NewEventRepository(db).GetForUpdate(txCtx, "ev-1")
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return err
	})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingRepository_ListForOrganizer(t *testing.T) {
	ctx := context.Background()
	cols := []string{"id", "event_id", "title", "name", "email", "ticket_qty", "status", "total_price", "selected_day", "booked_at"}
	booked := time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC)

	t.Run("all events", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`JOIN events e ON e.id = b.event_id\s+JOIN customers c ON c.id = b.customer_id\s+WHERE e.organizer_id = \$1 ORDER BY b.booked_at DESC`).
			WithArgs("org-1").
			WillReturnRows(sqlmock.NewRows(cols).
				AddRow("bk-2", "ev-2", "Derby", "Bob", "bob@example.com", 1, "ACTIVE", "0", nil, booked).
				AddRow("bk-1", "ev-1", "Gala", "Alice", "alice@example.com", 2, "CANCELLED", "40.00", booked, booked))

		list, err := NewBookingRepository(db).ListForOrganizer(ctx, "org-1", "")
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Derby", list[0].EventTitle)
		assert.Nil(t, list[0].SelectedDay)
		assert.Equal(t, domain.BookingCancelled, list[1].Status)
		require.NotNil(t, list[1].SelectedDay)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("one event", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()
		mock.ExpectQuery(`WHERE e.organizer_id = \$1 AND b.event_id = \$2 ORDER BY b.booked_at DESC`).
			WithArgs("org-1", "ev-1").
			WillReturnRows(sqlmock.NewRows(cols))

		list, err := NewBookingRepository(db).ListForOrganizer(ctx, "org-1", "ev-1")
		require.NoError(t, err)
		assert.NotNil(t, list)
		assert.Empty(t, list)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}
