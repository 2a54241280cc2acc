package domain

import "time"

type ReservationStatus string

const (
	ReservationStatusQuotation ReservationStatus = "QUOTATION"
	ReservationStatusConfirmed ReservationStatus = "CONFIRMED"
	ReservationStatusPickedUp  ReservationStatus = "PICKED_UP"
	ReservationStatusReturned  ReservationStatus = "RETURNED"
	ReservationStatusCancelled ReservationStatus = "CANCELLED"
)

func ValidReservationStatus(s ReservationStatus) bool {
	switch s {
	case ReservationStatusQuotation, ReservationStatusConfirmed, ReservationStatusPickedUp,
		ReservationStatusReturned, ReservationStatusCancelled:
		return true
	}
	return false
}

// legalTransitions is the full transition table of the reservation state
// machine. RETURNED and CANCELLED are terminal. A picked-up reservation
// exits only through RETURNED.
var legalTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusQuotation: {ReservationStatusConfirmed, ReservationStatusCancelled},
	ReservationStatusConfirmed: {ReservationStatusPickedUp, ReservationStatusCancelled},
	ReservationStatusPickedUp:  {ReservationStatusReturned},
}

// CanTransition reports whether from -> to is a legal edge.
func CanTransition(from, to ReservationStatus) bool {
	for _, next := range legalTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ActiveStatuses are the reservation statuses that occupy a garment for
// availability purposes. Quotations are non-binding drafts; cancelled and
// returned reservations have released their garments.
var ActiveStatuses = []ReservationStatus{
	ReservationStatusConfirmed,
	ReservationStatusPickedUp,
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "PENDING"
	PaymentStatusPartial PaymentStatus = "PARTIAL"
	PaymentStatusPaid    PaymentStatus = "PAID"
)

// ClassifyPayment derives the payment status from what has been paid against
// what is owed. payment_status is never stored independently of this rule.
func ClassifyPayment(amountPaidCents, totalValueCents int32) PaymentStatus {
	switch {
	case amountPaidCents >= totalValueCents:
		return PaymentStatusPaid
	case amountPaidCents > 0:
		return PaymentStatusPartial
	default:
		return PaymentStatusPending
	}
}

type PaymentMethod string

const (
	PaymentMethodLumpSum     PaymentMethod = "LUMP_SUM"
	PaymentMethodInstallment PaymentMethod = "INSTALLMENT"
)

// ReservationItem links one garment to a reservation with the size chosen for
// this booking, which may differ from the garment's default size.
type ReservationItem struct {
	GarmentID int32    `json:"garment_id"`
	Size      string   `json:"size"`
	Garment   *Garment `json:"garment,omitempty"`
}

type ChecklistItem struct {
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

type ReturnChecklist struct {
	IsOK          bool            `json:"is_ok"`
	AttendantName string          `json:"attendant_name"`
	Notes         string          `json:"notes"`
	Items         []ChecklistItem `json:"items"`
}

type Reservation struct {
	ID                int32             `json:"id"`
	CustomerID        int32             `json:"customer_id"`
	Customer          *Customer         `json:"customer,omitempty"`
	Items             []ReservationItem `json:"items"`
	StartDate         string            `json:"start_date"`
	EndDate           string            `json:"end_date"`
	Status            ReservationStatus `json:"status"`
	TotalValueCents   int32             `json:"total_value_cents"`
	DepositValueCents int32             `json:"deposit_value_cents"`
	AmountPaidCents   int32             `json:"amount_paid_cents"`
	PaymentStatus     PaymentStatus     `json:"payment_status"`
	PaymentMethod     PaymentMethod     `json:"payment_method,omitempty"`
	DiscountPercent   int32             `json:"discount_percent"`
	ReturnChecklist   *ReturnChecklist  `json:"return_checklist,omitempty"`
	CreatedOn         time.Time         `json:"created_on"`
	UpdatedOn         time.Time         `json:"updated_on"`
}

// DateLayout is the wire and storage format for reservation date ranges.
// Ranges are inclusive on both ends.
const DateLayout = "2006-01-02"

// ParseDateRange validates a start/end pair. End may equal start (single-day
// rental) but never precede it.
func ParseDateRange(start, end string) (time.Time, time.Time, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("invalid start date %q, expected YYYY-MM-DD", start)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, NewValidationError("invalid end date %q, expected YYYY-MM-DD", end)
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, NewValidationError("end date %s is before start date %s", end, start)
	}
	return s, e, nil
}

// MonthlyProjection is a staff-entered expected revenue figure for one
// calendar month, compared against actuals on the dashboard. It never affects
// reservation logic.
type MonthlyProjection struct {
	Month              string    `json:"month"` // "2006-01"
	ExpectedValueCents int64     `json:"expected_value_cents"`
	UpdatedOn          time.Time `json:"updated_on"`
}

// MonthLayout is the key format for monthly projections and history buckets.
const MonthLayout = "2006-01"
