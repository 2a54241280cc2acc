package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closet-backend/internal/domain"
)

func newMockRepo(t *testing.T) (*reservationRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &reservationRepository{db: db}, mock
}

func reservationRows(id int32, status domain.ReservationStatus) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "customer_id", "start_date", "end_date", "status", "total_value_cents",
		"deposit_value_cents", "amount_paid_cents", "payment_status", "payment_method",
		"discount_percent", "return_checklist", "created_on", "updated_on",
	}).AddRow(id, 10, "2026-09-10", "2026-09-12", status, 30000,
		10000, 10000, domain.PaymentStatusPartial, nil, 0, nil, now, now)
}

func TestHasActiveConflict(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int32(1),
			domain.ReservationStatusQuotation, domain.ReservationStatusCancelled, domain.ReservationStatusReturned,
			"2026-09-10", "2026-09-12", int32(0)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	conflict, err := repo.HasActiveConflict(context.Background(), 1, "2026-09-10", "2026-09-12", 0)

	require.NoError(t, err)
	assert.True(t, conflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestHasActiveConflict_ExcludesSelf(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs(int32(1),
			domain.ReservationStatusQuotation, domain.ReservationStatusCancelled, domain.ReservationStatusReturned,
			"2026-09-10", "2026-09-12", int32(5)).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	conflict, err := repo.HasActiveConflict(context.Background(), 1, "2026-09-10", "2026-09-12", 5)

	require.NoError(t, err)
	assert.False(t, conflict)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationCreate_ReturnsID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO reservations")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))

	res := &domain.Reservation{
		CustomerID:      10,
		StartDate:       "2026-09-10",
		EndDate:         "2026-09-12",
		Status:          domain.ReservationStatusConfirmed,
		TotalValueCents: 30000,
		PaymentStatus:   domain.PaymentStatusPending,
	}
	err := repo.Create(context.Background(), res)

	require.NoError(t, err)
	assert.Equal(t, int32(7), res.ID)
	assert.False(t, res.CreatedOn.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationGetByID(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE id = $1")).
		WithArgs(int32(7)).
		WillReturnRows(reservationRows(7, domain.ReservationStatusConfirmed))
	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("FROM reservation_items ri")).
		WillReturnRows(sqlmock.NewRows([]string{
			"reservation_id", "garment_id", "size",
			"name", "category", "g_size", "rental_price_cents", "deposit_price_cents",
			"image_url", "rent_count", "status", "created_on", "updated_on",
		}).AddRow(7, 1, "", "Red Gala Dress", "Party", "M", 25000, 10000, "", 5, domain.GarmentStatusReserved, now, now))

	res, err := repo.GetByID(context.Background(), 7)

	require.NoError(t, err)
	assert.Equal(t, domain.ReservationStatusConfirmed, res.Status)
	require.Len(t, res.Items, 1)
	// Item size falls back to the garment's default when unset.
	assert.Equal(t, "M", res.Items[0].Size)
	assert.Equal(t, "Red Gala Dress", res.Items[0].Garment.Name)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReservationGetByID_NotFound(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM reservations WHERE id = $1")).
		WithArgs(int32(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, int32(99), notFound.ID)
}

func TestReservationUpdate_MissingRow(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE reservations SET")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &domain.Reservation{ID: 99})

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByCustomer(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT count(*) FROM reservations WHERE customer_id = $1")).
		WithArgs(int32(10)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := repo.CountByCustomer(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, int32(3), count)
}
