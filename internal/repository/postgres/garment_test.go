package postgres

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"closet-backend/internal/domain"
)

func newGarmentRepo(t *testing.T) (*garmentRepository, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return &garmentRepository{db: db}, mock
}

func garmentRows(id int32) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "name", "category", "size", "measurements", "rental_price_cents",
		"deposit_price_cents", "image_url", "rent_count", "status", "created_on", "updated_on",
	}).AddRow(id, "Red Gala Dress", "Party", "M", []byte(`{"bust":"92cm"}`), 25000,
		10000, "", 5, domain.GarmentStatusAvailable, now, now)
}

func TestGarmentCreate(t *testing.T) {
	repo, mock := newGarmentRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO garments")).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(3))

	g := &domain.Garment{
		Name:         "Red Gala Dress",
		Category:     "Party",
		Size:         "M",
		Measurements: map[string]string{"bust": "92cm"},
		Status:       domain.GarmentStatusAvailable,
	}
	err := repo.Create(context.Background(), g)

	require.NoError(t, err)
	assert.Equal(t, int32(3), g.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGarmentGetByID_DecodesMeasurements(t *testing.T) {
	repo, mock := newGarmentRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM garments WHERE id = $1")).
		WithArgs(int32(3)).
		WillReturnRows(garmentRows(3))

	g, err := repo.GetByID(context.Background(), 3)

	require.NoError(t, err)
	assert.Equal(t, "92cm", g.Measurements["bust"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGarmentGetByID_NotFound(t *testing.T) {
	repo, mock := newGarmentRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM garments WHERE id = $1")).
		WithArgs(int32(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 99)

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestLockForUpdate_OrdersByID(t *testing.T) {
	repo, mock := newGarmentRepo(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE id = ANY($1) ORDER BY id FOR UPDATE")).
		WillReturnRows(garmentRows(3))

	garments, err := repo.LockForUpdate(context.Background(), []int32{3})

	require.NoError(t, err)
	require.Len(t, garments, 1)
	assert.Equal(t, int32(3), garments[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatus_WritesHistory(t *testing.T) {
	repo, mock := newGarmentRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE garments SET status=$1")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO garment_history")).
		WithArgs(int32(3), domain.GarmentStatusMaintenance, "torn hem", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err := repo.SetStatus(context.Background(), 3, domain.GarmentStatusMaintenance, "torn hem")

	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSetStatus_UnknownGarment(t *testing.T) {
	repo, mock := newGarmentRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE garments SET status=$1")).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStatus(context.Background(), 99, domain.GarmentStatusMaintenance, "torn hem")

	var notFound *domain.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestGarmentDelete_ForeignKeyViolation(t *testing.T) {
	repo, mock := newGarmentRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM garments WHERE id = $1")).
		WithArgs(int32(3)).
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Delete(context.Background(), 3)

	var conflict *domain.ReferentialConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "reservations", conflict.DependsOn)
}

func TestIncrementRentCount(t *testing.T) {
	repo, mock := newGarmentRepo(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE garments SET rent_count = rent_count + 1")).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.IncrementRentCount(context.Background(), 3))
	require.NoError(t, mock.ExpectationsWereMet())
}
