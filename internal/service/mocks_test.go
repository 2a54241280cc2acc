package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"closet-backend/internal/domain"
	"closet-backend/internal/repository"
)

type mockGarmentRepo struct {
	mock.Mock
}

func (m *mockGarmentRepo) Create(ctx context.Context, g *domain.Garment) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *mockGarmentRepo) GetByID(ctx context.Context, id int32) (*domain.Garment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Garment), args.Error(1)
}

func (m *mockGarmentRepo) GetByIDs(ctx context.Context, ids []int32) ([]domain.Garment, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Garment), args.Error(1)
}

func (m *mockGarmentRepo) LockForUpdate(ctx context.Context, ids []int32) ([]domain.Garment, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Garment), args.Error(1)
}

func (m *mockGarmentRepo) Update(ctx context.Context, g *domain.Garment) error {
	args := m.Called(ctx, g)
	return args.Error(0)
}

func (m *mockGarmentRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockGarmentRepo) List(ctx context.Context, query string, page, pageSize int32) ([]domain.Garment, int32, error) {
	args := m.Called(ctx, query, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Garment), args.Get(1).(int32), args.Error(2)
}

func (m *mockGarmentRepo) ListAll(ctx context.Context) ([]domain.Garment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Garment), args.Error(1)
}

func (m *mockGarmentRepo) SetStatus(ctx context.Context, id int32, status domain.GarmentStatus, note string) error {
	args := m.Called(ctx, id, status, note)
	return args.Error(0)
}

func (m *mockGarmentRepo) IncrementRentCount(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockGarmentRepo) ListHistory(ctx context.Context, garmentID int32) ([]domain.GarmentHistory, error) {
	args := m.Called(ctx, garmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GarmentHistory), args.Error(1)
}

func (m *mockGarmentRepo) CreateImage(ctx context.Context, img *domain.GarmentImage) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *mockGarmentRepo) ListImages(ctx context.Context, garmentID int32) ([]domain.GarmentImage, error) {
	args := m.Called(ctx, garmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.GarmentImage), args.Error(1)
}

func (m *mockGarmentRepo) SetPrimaryImageURL(ctx context.Context, garmentID int32, url string) error {
	args := m.Called(ctx, garmentID, url)
	return args.Error(0)
}

type mockCustomerRepo struct {
	mock.Mock
}

func (m *mockCustomerRepo) Create(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCustomerRepo) GetByID(ctx context.Context, id int32) (*domain.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

func (m *mockCustomerRepo) Update(ctx context.Context, c *domain.Customer) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockCustomerRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockCustomerRepo) List(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error) {
	args := m.Called(ctx, query, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Customer), args.Get(1).(int32), args.Error(2)
}

func (m *mockCustomerRepo) CountRecurring(ctx context.Context) (int32, error) {
	args := m.Called(ctx)
	return args.Get(0).(int32), args.Error(1)
}

type mockReservationRepo struct {
	mock.Mock
}

func (m *mockReservationRepo) Create(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockReservationRepo) CreateItems(ctx context.Context, reservationID int32, items []domain.ReservationItem) error {
	args := m.Called(ctx, reservationID, items)
	return args.Error(0)
}

func (m *mockReservationRepo) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Reservation), args.Error(1)
}

func (m *mockReservationRepo) Update(ctx context.Context, r *domain.Reservation) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *mockReservationRepo) List(ctx context.Context, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error) {
	args := m.Called(ctx, status, page, pageSize)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Reservation), args.Get(1).(int32), args.Error(2)
}

func (m *mockReservationRepo) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Reservation), args.Error(1)
}

func (m *mockReservationRepo) HasActiveConflict(ctx context.Context, garmentID int32, startDate, endDate string, excludeID int32) (bool, error) {
	args := m.Called(ctx, garmentID, startDate, endDate, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *mockReservationRepo) CountByCustomer(ctx context.Context, customerID int32) (int32, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *mockReservationRepo) CountByGarment(ctx context.Context, garmentID int32) (int32, error) {
	args := m.Called(ctx, garmentID)
	return args.Get(0).(int32), args.Error(1)
}

type mockProjectionRepo struct {
	mock.Mock
}

func (m *mockProjectionRepo) Upsert(ctx context.Context, p *domain.MonthlyProjection) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *mockProjectionRepo) GetRange(ctx context.Context, months []string) (map[string]int64, error) {
	args := m.Called(ctx, months)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int64), args.Error(1)
}

// mockTxManager hands the same mocked repositories to the closure, so tests
// observe every call made inside a transaction.
type mockTxManager struct {
	repos repository.Repositories
}

func (m *mockTxManager) WithinTx(ctx context.Context, fn func(r repository.Repositories) error) error {
	return fn(m.repos)
}

// testEnv bundles one set of mocks wired into a Repositories value.
type testEnv struct {
	garments     *mockGarmentRepo
	customers    *mockCustomerRepo
	reservations *mockReservationRepo
	projections  *mockProjectionRepo
	repos        repository.Repositories
	tx           *mockTxManager
}

func newTestEnv() *testEnv {
	env := &testEnv{
		garments:     new(mockGarmentRepo),
		customers:    new(mockCustomerRepo),
		reservations: new(mockReservationRepo),
		projections:  new(mockProjectionRepo),
	}
	env.repos = repository.Repositories{
		Garments:     env.garments,
		Customers:    env.customers,
		Reservations: env.reservations,
		Projections:  env.projections,
	}
	env.tx = &mockTxManager{repos: env.repos}
	return env
}

func (e *testEnv) assertExpectations(t mock.TestingT) {
	e.garments.AssertExpectations(t)
	e.customers.AssertExpectations(t)
	e.reservations.AssertExpectations(t)
	e.projections.AssertExpectations(t)
}
