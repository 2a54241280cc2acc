package domain

import "time"

type FinancialStatus string

const (
	FinancialStatusActive     FinancialStatus = "ACTIVE"
	FinancialStatusDelinquent FinancialStatus = "DELINQUENT"
)

func ValidFinancialStatus(s FinancialStatus) bool {
	return s == FinancialStatusActive || s == FinancialStatusDelinquent
}

type Customer struct {
	ID              int32           `json:"id"`
	Name            string          `json:"name"`
	Document        string          `json:"document"`
	Phone           string          `json:"phone"`
	Email           string          `json:"email"`
	Address         string          `json:"address"`
	PostalCode      string          `json:"postal_code"`
	FinancialStatus FinancialStatus `json:"financial_status"`
	IsRecurring     bool            `json:"is_recurring"`
	// Notes are staff-only and never shown to the customer.
	Notes             string    `json:"notes,omitempty"`
	ReservationsCount int32     `json:"reservations_count"`
	CreatedOn         time.Time `json:"created_on"`
	UpdatedOn         time.Time `json:"updated_on"`
}
