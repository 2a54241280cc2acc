package domain

import "fmt"

// Error kinds surfaced by the business services. Handlers map these to HTTP
// status codes; every message must be readable enough for a staff user to
// correct their input.

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func NewValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// CustomerBlockedError means a booking was attempted for a delinquent customer.
type CustomerBlockedError struct {
	CustomerID   int32
	CustomerName string
}

func (e *CustomerBlockedError) Error() string {
	return fmt.Sprintf("customer %q (id %d) is delinquent and cannot make new reservations", e.CustomerName, e.CustomerID)
}

// AvailabilityConflictError names the garment whose requested date range
// overlaps an active reservation.
type AvailabilityConflictError struct {
	GarmentID   int32
	GarmentName string
	StartDate   string
	EndDate     string
}

func (e *AvailabilityConflictError) Error() string {
	return fmt.Sprintf("garment %q (id %d) is not available between %s and %s", e.GarmentName, e.GarmentID, e.StartDate, e.EndDate)
}

type NotFoundError struct {
	Entity string
	ID     int32
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// ReferentialConflictError means a delete was blocked because dependent
// records still reference the entity.
type ReferentialConflictError struct {
	Entity    string
	ID        int32
	DependsOn string
}

func (e *ReferentialConflictError) Error() string {
	return fmt.Sprintf("%s %d cannot be deleted: %s still reference it", e.Entity, e.ID, e.DependsOn)
}

type InvalidTransitionError struct {
	From ReservationStatus
	To   ReservationStatus
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("reservation status cannot change from %s to %s", e.From, e.To)
}

// StoreError wraps an underlying persistence failure. It is propagated, never
// retried; the caller re-attempts the whole operation.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("storage failure during %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

func NewStoreError(op string, err error) *StoreError {
	return &StoreError{Op: op, Err: err}
}
