package integration

import (
	"context"
	"testing"

	"closet-backend/internal/domain"
	"closet-backend/internal/repository/postgres"
	"closet-backend/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The conflict predicate treats both boundary dates as occupied: a garment
// returned on the 15th cannot start another rental on the 15th. Dates are
// TEXT columns compared lexicographically, which matches chronological
// order for zero-padded ISO dates.
func TestAvailabilityConflict_InclusiveBoundaries(t *testing.T) {
	db := prepareDB(t)
	defer db.Close()

	store := postgres.NewStore(db)
	ctx := context.Background()

	customer := seedCustomer(t, store)
	garment := seedGarment(t, store, 10000)
	seedReservation(t, store, customer.ID, garment.ID,
		domain.ReservationStatusConfirmed, "2024-05-10", "2024-05-15")

	tests := []struct {
		name       string
		start, end string
		conflict   bool
	}{
		{"identical range", "2024-05-10", "2024-05-15", true},
		{"contained range", "2024-05-11", "2024-05-14", true},
		{"surrounding range", "2024-05-01", "2024-05-31", true},
		{"starts on existing end date", "2024-05-15", "2024-05-20", true},
		{"ends on existing start date", "2024-05-05", "2024-05-10", true},
		{"starts the day after", "2024-05-16", "2024-05-20", false},
		{"ends the day before", "2024-05-05", "2024-05-09", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conflict, err := store.Reservations.HasActiveConflict(ctx, garment.ID, tt.start, tt.end, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.conflict, conflict)
		})
	}
}

func TestAvailabilityConflict_NonBindingStatusesDoNotBlock(t *testing.T) {
	db := prepareDB(t)
	defer db.Close()

	store := postgres.NewStore(db)
	ctx := context.Background()

	customer := seedCustomer(t, store)
	garment := seedGarment(t, store, 10000)
	for _, status := range []domain.ReservationStatus{
		domain.ReservationStatusQuotation,
		domain.ReservationStatusCancelled,
		domain.ReservationStatusReturned,
	} {
		seedReservation(t, store, customer.ID, garment.ID, status, "2024-05-10", "2024-05-15")
	}

	conflict, err := store.Reservations.HasActiveConflict(ctx, garment.ID, "2024-05-10", "2024-05-15", 0)
	require.NoError(t, err)
	assert.False(t, conflict, "quotations, cancelled and returned reservations never occupy a garment")

	seedReservation(t, store, customer.ID, garment.ID,
		domain.ReservationStatusPickedUp, "2024-05-10", "2024-05-15")

	conflict, err = store.Reservations.HasActiveConflict(ctx, garment.ID, "2024-05-10", "2024-05-15", 0)
	require.NoError(t, err)
	assert.True(t, conflict, "a picked-up reservation occupies the garment")
}

func TestAvailabilityConflict_ExcludesSelf(t *testing.T) {
	db := prepareDB(t)
	defer db.Close()

	store := postgres.NewStore(db)
	ctx := context.Background()

	customer := seedCustomer(t, store)
	garment := seedGarment(t, store, 10000)
	res := seedReservation(t, store, customer.ID, garment.ID,
		domain.ReservationStatusConfirmed, "2024-05-10", "2024-05-15")

	conflict, err := store.Reservations.HasActiveConflict(ctx, garment.ID, "2024-05-10", "2024-05-15", res.ID)
	require.NoError(t, err)
	assert.False(t, conflict, "a reservation does not conflict with itself when revalidating")

	conflict, err = store.Reservations.HasActiveConflict(ctx, garment.ID, "2024-05-10", "2024-05-15", 0)
	require.NoError(t, err)
	assert.True(t, conflict)
}

func TestCreateReservation_MultiItemAtomicity(t *testing.T) {
	db := prepareDB(t)
	defer db.Close()

	store := postgres.NewStore(db)
	svc := service.NewReservationService(store.Repositories, store)
	ctx := context.Background()

	customer := seedCustomer(t, store)
	free := seedGarment(t, store, 10000)
	booked := seedGarment(t, store, 10000)
	seedReservation(t, store, customer.ID, booked.ID,
		domain.ReservationStatusConfirmed, "2024-06-10", "2024-06-15")

	_, err := svc.Create(ctx, service.CreateReservationInput{
		CustomerID: customer.ID,
		Items: []service.ReservationItemInput{
			{GarmentID: free.ID},
			{GarmentID: booked.ID},
		},
		StartDate:       "2024-06-12",
		EndDate:         "2024-06-14",
		Status:          domain.ReservationStatusConfirmed,
		TotalValueCents: 20000,
	})

	var conflict *domain.AvailabilityConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, booked.ID, conflict.GarmentID)

	// One conflicting item fails the whole booking: the free garment must
	// come out untouched, with no reservation rows and no status change.
	count, err := store.Reservations.CountByGarment(ctx, free.ID)
	require.NoError(t, err)
	assert.Zero(t, count)

	g, err := store.Garments.GetByID(ctx, free.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.GarmentStatusAvailable, g.Status)

	available, err := svc.IsAvailable(ctx, free.ID, "2024-06-12", "2024-06-14", 0)
	require.NoError(t, err)
	assert.True(t, available)
}
