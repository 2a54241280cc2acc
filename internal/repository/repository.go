package repository

import (
	"context"

	"closet-backend/internal/domain"
)

type GarmentRepository interface {
	Create(ctx context.Context, g *domain.Garment) error
	GetByID(ctx context.Context, id int32) (*domain.Garment, error)
	GetByIDs(ctx context.Context, ids []int32) ([]domain.Garment, error)
	// LockForUpdate loads the garment rows with row-level locks held for the
	// rest of the enclosing transaction. Rows come back ordered by id so
	// concurrent bookings acquire locks in the same order.
	LockForUpdate(ctx context.Context, ids []int32) ([]domain.Garment, error)
	Update(ctx context.Context, g *domain.Garment) error
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, query string, page, pageSize int32) ([]domain.Garment, int32, error)
	ListAll(ctx context.Context) ([]domain.Garment, error)
	// SetStatus overwrites the status and appends one history entry. It is
	// the only status mutation path; callers never write history directly.
	SetStatus(ctx context.Context, id int32, status domain.GarmentStatus, note string) error
	IncrementRentCount(ctx context.Context, id int32) error
	ListHistory(ctx context.Context, garmentID int32) ([]domain.GarmentHistory, error)

	CreateImage(ctx context.Context, img *domain.GarmentImage) error
	ListImages(ctx context.Context, garmentID int32) ([]domain.GarmentImage, error)
	SetPrimaryImageURL(ctx context.Context, garmentID int32, url string) error
}

type CustomerRepository interface {
	Create(ctx context.Context, c *domain.Customer) error
	GetByID(ctx context.Context, id int32) (*domain.Customer, error)
	Update(ctx context.Context, c *domain.Customer) error
	Delete(ctx context.Context, id int32) error
	// List filters by a case-insensitive substring of name, email or document
	// and fills the derived reservations_count on every row.
	List(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error)
	CountRecurring(ctx context.Context) (int32, error)
}

type ReservationRepository interface {
	Create(ctx context.Context, r *domain.Reservation) error
	CreateItems(ctx context.Context, reservationID int32, items []domain.ReservationItem) error
	GetByID(ctx context.Context, id int32) (*domain.Reservation, error)
	Update(ctx context.Context, r *domain.Reservation) error
	List(ctx context.Context, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error)
	ListAll(ctx context.Context) ([]domain.Reservation, error)
	// HasActiveConflict reports whether another reservation occupies the
	// garment in the inclusive date range. Quotations, cancelled and
	// returned reservations never conflict. excludeID skips one reservation
	// (itself, when revalidating); pass 0 to skip none.
	HasActiveConflict(ctx context.Context, garmentID int32, startDate, endDate string, excludeID int32) (bool, error)
	CountByCustomer(ctx context.Context, customerID int32) (int32, error)
	CountByGarment(ctx context.Context, garmentID int32) (int32, error)
}

type ProjectionRepository interface {
	Upsert(ctx context.Context, p *domain.MonthlyProjection) error
	// GetRange returns projections keyed by month for the given month keys.
	// Months with no projection are absent from the map.
	GetRange(ctx context.Context, months []string) (map[string]int64, error)
}

// Repositories bundles every repository bound to the same database handle,
// either the root pool or one transaction.
type Repositories struct {
	Garments     GarmentRepository
	Customers    CustomerRepository
	Reservations ReservationRepository
	Projections  ProjectionRepository
}

// TxManager runs a closure inside a single database transaction. The
// repositories handed to fn share that transaction; any error rolls the whole
// transaction back, so multi-step operations either apply fully or not at all.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(r Repositories) error) error
}
