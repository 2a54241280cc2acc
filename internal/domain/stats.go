package domain

import "time"

type CategoryRevenue struct {
	Category   string `json:"category"`
	ValueCents int64  `json:"value_cents"`
}

// MonthlyRevenue is one bucket of the six-month dashboard history: what was
// actually collected (by reservation creation month) against the staff-entered
// projection, 0 when none was set.
type MonthlyRevenue struct {
	Month          string `json:"month"` // "2006-01"
	ActualCents    int64  `json:"actual_cents"`
	ProjectedCents int64  `json:"projected_cents"`
}

type ActivityType string

const (
	ActivityTypeReturn      ActivityType = "return"
	ActivityTypeReservation ActivityType = "reservation"
	ActivityTypePayment     ActivityType = "payment"
)

type Activity struct {
	ReservationID int32        `json:"reservation_id"`
	Type          ActivityType `json:"type"`
	Description   string       `json:"description"`
	Time          time.Time    `json:"time"`
	TimeLabel     string       `json:"time_label"`
}

// DashboardStats is the full dashboard payload, recomputed from scratch on
// every request.
type DashboardStats struct {
	TotalGarments           int32             `json:"total_garments"`
	ActiveReservations      int32             `json:"active_reservations"`
	OccupancyRate           float64           `json:"occupancy_rate"`
	MonthlyRevenueCents     int64             `json:"monthly_revenue_cents"`
	ContractedRevenueCents  int64             `json:"contracted_revenue_cents"`
	PendingPaymentsCount    int32             `json:"pending_payments_count"`
	PendingReservations     []Reservation     `json:"pending_reservations"`
	RevenueByCategory       []CategoryRevenue `json:"revenue_by_category"`
	MonthlyHistory          []MonthlyRevenue  `json:"monthly_history"`
	MostRented              []Garment         `json:"most_rented"`
	RecentActivities        []Activity        `json:"recent_activities"`
	FutureReservations      int32             `json:"future_reservations"`
	UpcomingReturns         int32             `json:"upcoming_returns"`
	RecurringCustomersCount int32             `json:"recurring_customers_count"`
}
