package service

import (
	"context"
	"io"

	"closet-backend/internal/domain"
)

type CreateGarmentInput struct {
	Name              string            `json:"name"`
	Category          string            `json:"category"`
	Size              string            `json:"size"`
	Measurements      map[string]string `json:"measurements"`
	RentalPriceCents  int32             `json:"rental_price_cents"`
	DepositPriceCents int32             `json:"deposit_price_cents"`
	ImageURL          string            `json:"image_url"`
}

type GarmentService interface {
	Create(ctx context.Context, input CreateGarmentInput) (*domain.Garment, error)
	BulkImport(ctx context.Context, inputs []CreateGarmentInput) ([]domain.Garment, error)
	Get(ctx context.Context, id int32) (*domain.Garment, error)
	Update(ctx context.Context, id int32, input CreateGarmentInput) (*domain.Garment, error)
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, query string, page, pageSize int32) ([]domain.Garment, int32, error)
	// SetStatus is the only status mutation path; it appends a history entry
	// and requires a non-empty note.
	SetStatus(ctx context.Context, id int32, status domain.GarmentStatus, note string) (*domain.Garment, error)
	AttachImage(ctx context.Context, id int32, fileName string, content io.Reader, setPrimary bool) (*domain.GarmentImage, error)
}

type CustomerInput struct {
	Name            string                 `json:"name"`
	Document        string                 `json:"document"`
	Phone           string                 `json:"phone"`
	Email           string                 `json:"email"`
	Address         string                 `json:"address"`
	PostalCode      string                 `json:"postal_code"`
	FinancialStatus domain.FinancialStatus `json:"financial_status"`
	IsRecurring     bool                   `json:"is_recurring"`
	Notes           string                 `json:"notes"`
}

type CustomerService interface {
	Create(ctx context.Context, input CustomerInput) (*domain.Customer, error)
	Get(ctx context.Context, id int32) (*domain.Customer, error)
	Update(ctx context.Context, id int32, input CustomerInput) (*domain.Customer, error)
	Delete(ctx context.Context, id int32) error
	List(ctx context.Context, query string, page, pageSize int32) ([]domain.Customer, int32, error)
}

type ReservationItemInput struct {
	GarmentID int32  `json:"garment_id"`
	Size      string `json:"size"`
}

type CreateReservationInput struct {
	CustomerID        int32                    `json:"customer_id"`
	Items             []ReservationItemInput   `json:"items"`
	StartDate         string                   `json:"start_date"`
	EndDate           string                   `json:"end_date"`
	Status            domain.ReservationStatus `json:"status"`
	TotalValueCents   int32                    `json:"total_value_cents"`
	DepositValueCents int32                    `json:"deposit_value_cents"`
	PaymentStatus     domain.PaymentStatus     `json:"payment_status"`
	PaymentMethod     domain.PaymentMethod     `json:"payment_method"`
	DiscountPercent   int32                    `json:"discount_percent"`
}

type ReservationService interface {
	Create(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error)
	Get(ctx context.Context, id int32) (*domain.Reservation, error)
	List(ctx context.Context, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error)
	// ConvertQuotation re-validates availability against the current
	// reservation set before flipping a quotation to confirmed.
	ConvertQuotation(ctx context.Context, id int32) (*domain.Reservation, error)
	UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus) (*domain.Reservation, error)
	RecordPayment(ctx context.Context, id int32, amountCents int32) (*domain.Reservation, error)
	SetReturnChecklist(ctx context.Context, id int32, checklist domain.ReturnChecklist) (*domain.Reservation, error)
	IsAvailable(ctx context.Context, garmentID int32, startDate, endDate string, excludeID int32) (bool, error)
}

type StatsService interface {
	GetDashboard(ctx context.Context) (*domain.DashboardStats, error)
	UpsertProjection(ctx context.Context, month string, expectedValueCents int64) (*domain.MonthlyProjection, error)
}

// SessionService issues display-only identities. There is no password or
// account verification: the caller-supplied email is trusted, exactly like
// the login this replaces. Role gating is cosmetic.
type SessionService interface {
	Login(ctx context.Context, email string) (token string, role string, err error)
}

type EmailService interface {
	// SendStaffReport delivers a plain-text report to the configured staff
	// address. Implementations must be safe to call when email is disabled.
	SendStaffReport(ctx context.Context, subject, body string) error
}
