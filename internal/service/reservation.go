package service

import (
	"context"
	"fmt"

	"closet-backend/internal/domain"
	"closet-backend/internal/logger"
	"closet-backend/internal/repository"
)

type reservationService struct {
	repos repository.Repositories
	tx    repository.TxManager
}

func NewReservationService(repos repository.Repositories, tx repository.TxManager) ReservationService {
	return &reservationService{repos: repos, tx: tx}
}

func (s *reservationService) Create(ctx context.Context, input CreateReservationInput) (*domain.Reservation, error) {
	if input.CustomerID == 0 {
		return nil, domain.NewValidationError("a customer is required")
	}
	if len(input.Items) == 0 {
		return nil, domain.NewValidationError("a reservation needs at least one garment")
	}
	if _, _, err := domain.ParseDateRange(input.StartDate, input.EndDate); err != nil {
		return nil, err
	}
	if input.Status == "" {
		input.Status = domain.ReservationStatusQuotation
	}
	if input.Status != domain.ReservationStatusQuotation && input.Status != domain.ReservationStatusConfirmed {
		return nil, domain.NewValidationError("a reservation starts as %s or %s, not %s",
			domain.ReservationStatusQuotation, domain.ReservationStatusConfirmed, input.Status)
	}

	var created *domain.Reservation
	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		customer, err := r.Customers.GetByID(ctx, input.CustomerID)
		if err != nil {
			return err
		}
		if customer.FinancialStatus == domain.FinancialStatusDelinquent {
			return &domain.CustomerBlockedError{CustomerID: customer.ID, CustomerName: customer.Name}
		}

		garments, err := lockGarments(ctx, r, itemGarmentIDs(input.Items))
		if err != nil {
			return err
		}

		// Quotations are non-binding and may overlap anything; only binding
		// statuses run the availability check.
		if input.Status != domain.ReservationStatusQuotation {
			if err := checkAvailability(ctx, r, itemGarmentIDs(input.Items), garments, input.StartDate, input.EndDate, 0); err != nil {
				return err
			}
		}

		// A zero total means no price was negotiated up front; quote it
		// from the garments' list prices with the discount applied.
		if input.TotalValueCents == 0 {
			prices := make([]int32, len(input.Items))
			for i, item := range input.Items {
				prices[i] = garments[item.GarmentID].RentalPriceCents
			}
			input.TotalValueCents = domain.QuotedTotalCents(prices, input.DiscountPercent)
		}

		// The deposit counts as an automatic down payment unless the
		// reservation is already settled in full.
		amountPaid := input.DepositValueCents
		if input.PaymentStatus == domain.PaymentStatusPaid {
			amountPaid = input.TotalValueCents
		}

		res := &domain.Reservation{
			CustomerID:        input.CustomerID,
			StartDate:         input.StartDate,
			EndDate:           input.EndDate,
			Status:            input.Status,
			TotalValueCents:   input.TotalValueCents,
			DepositValueCents: input.DepositValueCents,
			AmountPaidCents:   amountPaid,
			PaymentStatus:     domain.ClassifyPayment(amountPaid, input.TotalValueCents),
			PaymentMethod:     input.PaymentMethod,
			DiscountPercent:   input.DiscountPercent,
		}
		if err := r.Reservations.Create(ctx, res); err != nil {
			return err
		}

		items := make([]domain.ReservationItem, len(input.Items))
		for i, in := range input.Items {
			size := in.Size
			if size == "" {
				size = garments[in.GarmentID].Size
			}
			items[i] = domain.ReservationItem{GarmentID: in.GarmentID, Size: size}
		}
		if err := r.Reservations.CreateItems(ctx, res.ID, items); err != nil {
			return err
		}

		if res.Status == domain.ReservationStatusConfirmed {
			note := fmt.Sprintf("Reservation confirmed #%d", res.ID)
			for _, item := range items {
				if err := r.Garments.SetStatus(ctx, item.GarmentID, domain.GarmentStatusReserved, note); err != nil {
					return err
				}
			}
		}

		created = res
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("reservation created", "reservation_id", created.ID, "status", created.Status, "items", len(input.Items))
	return s.Get(ctx, created.ID)
}

// IsAvailable reports whether the garment is free for the inclusive date
// range. Touching boundary dates conflict: a garment returned on the 15th
// cannot start another rental on the 15th.
func (s *reservationService) IsAvailable(ctx context.Context, garmentID int32, startDate, endDate string, excludeID int32) (bool, error) {
	if _, _, err := domain.ParseDateRange(startDate, endDate); err != nil {
		return false, err
	}
	conflict, err := s.repos.Reservations.HasActiveConflict(ctx, garmentID, startDate, endDate, excludeID)
	if err != nil {
		return false, err
	}
	return !conflict, nil
}

func (s *reservationService) ConvertQuotation(ctx context.Context, id int32) (*domain.Reservation, error) {
	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		res, err := r.Reservations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if res.Status != domain.ReservationStatusQuotation {
			return &domain.InvalidTransitionError{From: res.Status, To: domain.ReservationStatusConfirmed}
		}
		return confirmQuotation(ctx, r, res)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("quotation converted", "reservation_id", id)
	return s.Get(ctx, id)
}

func (s *reservationService) UpdateStatus(ctx context.Context, id int32, status domain.ReservationStatus) (*domain.Reservation, error) {
	if !domain.ValidReservationStatus(status) {
		return nil, domain.NewValidationError("unknown reservation status %q", status)
	}

	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		res, err := r.Reservations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !domain.CanTransition(res.Status, status) {
			return &domain.InvalidTransitionError{From: res.Status, To: status}
		}

		switch status {
		case domain.ReservationStatusConfirmed:
			// Same path as ConvertQuotation: the world may have changed
			// since the quotation was made.
			return confirmQuotation(ctx, r, res)

		case domain.ReservationStatusPickedUp:
			note := fmt.Sprintf("Picked up - reservation #%d", res.ID)
			for _, item := range res.Items {
				if err := r.Garments.SetStatus(ctx, item.GarmentID, domain.GarmentStatusOut, note); err != nil {
					return err
				}
				if err := r.Garments.IncrementRentCount(ctx, item.GarmentID); err != nil {
					return err
				}
			}

		case domain.ReservationStatusReturned:
			note := fmt.Sprintf("Returned (laundry) - reservation #%d", res.ID)
			for _, item := range res.Items {
				if err := r.Garments.SetStatus(ctx, item.GarmentID, domain.GarmentStatusLaundry, note); err != nil {
					return err
				}
			}
			// Return settles the reservation in full.
			if res.AmountPaidCents < res.TotalValueCents {
				res.AmountPaidCents = res.TotalValueCents
			}
			res.PaymentStatus = domain.PaymentStatusPaid

		case domain.ReservationStatusCancelled:
			note := fmt.Sprintf("Reservation #%d cancelled", res.ID)
			for _, item := range res.Items {
				if err := r.Garments.SetStatus(ctx, item.GarmentID, domain.GarmentStatusAvailable, note); err != nil {
					return err
				}
			}
		}

		res.Status = status
		return r.Reservations.Update(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("reservation status updated", "reservation_id", id, "status", status)
	return s.Get(ctx, id)
}

func (s *reservationService) RecordPayment(ctx context.Context, id int32, amountCents int32) (*domain.Reservation, error) {
	if amountCents <= 0 {
		return nil, domain.NewValidationError("payment amount must be positive, got %d cents", amountCents)
	}

	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		res, err := r.Reservations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		res.AmountPaidCents += amountCents
		if res.AmountPaidCents >= res.TotalValueCents {
			res.PaymentStatus = domain.PaymentStatusPaid
		} else {
			res.PaymentStatus = domain.PaymentStatusPartial
		}
		return r.Reservations.Update(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("payment recorded", "reservation_id", id, "amount_cents", amountCents)
	return s.Get(ctx, id)
}

func (s *reservationService) SetReturnChecklist(ctx context.Context, id int32, checklist domain.ReturnChecklist) (*domain.Reservation, error) {
	err := s.tx.WithinTx(ctx, func(r repository.Repositories) error {
		res, err := r.Reservations.GetByID(ctx, id)
		if err != nil {
			return err
		}
		res.ReturnChecklist = &checklist
		return r.Reservations.Update(ctx, res)
	})
	if err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}

func (s *reservationService) Get(ctx context.Context, id int32) (*domain.Reservation, error) {
	res, err := s.repos.Reservations.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	customer, err := s.repos.Customers.GetByID(ctx, res.CustomerID)
	if err != nil {
		return nil, err
	}
	res.Customer = customer
	return res, nil
}

func (s *reservationService) List(ctx context.Context, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error) {
	if status != "" && !domain.ValidReservationStatus(status) {
		return nil, 0, domain.NewValidationError("unknown reservation status %q", status)
	}
	reservations, count, err := s.repos.Reservations.List(ctx, status, page, pageSize)
	if err != nil {
		return nil, 0, err
	}

	customers := make(map[int32]*domain.Customer)
	for i := range reservations {
		c, ok := customers[reservations[i].CustomerID]
		if !ok {
			c, err = s.repos.Customers.GetByID(ctx, reservations[i].CustomerID)
			if err != nil {
				return nil, 0, err
			}
			customers[reservations[i].CustomerID] = c
		}
		reservations[i].Customer = c
	}
	return reservations, count, nil
}

// confirmQuotation flips a quotation to confirmed after re-checking every
// item against the current reservation set, then marks the garments reserved.
// Callers must already hold the transaction.
func confirmQuotation(ctx context.Context, r repository.Repositories, res *domain.Reservation) error {
	ids := reservationGarmentIDs(res)
	garments, err := lockGarments(ctx, r, ids)
	if err != nil {
		return err
	}
	if err := checkAvailability(ctx, r, ids, garments, res.StartDate, res.EndDate, res.ID); err != nil {
		return err
	}

	res.Status = domain.ReservationStatusConfirmed
	if err := r.Reservations.Update(ctx, res); err != nil {
		return err
	}

	note := fmt.Sprintf("Quotation converted to reservation #%d", res.ID)
	for _, item := range res.Items {
		if err := r.Garments.SetStatus(ctx, item.GarmentID, domain.GarmentStatusReserved, note); err != nil {
			return err
		}
	}
	return nil
}

// lockGarments loads the garments with row locks held for the rest of the
// transaction, serializing concurrent bookings per garment, and verifies
// every id exists.
func lockGarments(ctx context.Context, r repository.Repositories, ids []int32) (map[int32]domain.Garment, error) {
	garments, err := r.Garments.LockForUpdate(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[int32]domain.Garment, len(garments))
	for _, g := range garments {
		byID[g.ID] = g
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, &domain.NotFoundError{Entity: "garment", ID: id}
		}
	}
	return byID, nil
}

// checkAvailability fails on the first garment whose date range overlaps an
// active reservation. One conflicting item fails the whole operation; there
// is no partial booking.
func checkAvailability(ctx context.Context, r repository.Repositories, ids []int32, garments map[int32]domain.Garment, startDate, endDate string, excludeID int32) error {
	for _, id := range ids {
		conflict, err := r.Reservations.HasActiveConflict(ctx, id, startDate, endDate, excludeID)
		if err != nil {
			return err
		}
		if conflict {
			return &domain.AvailabilityConflictError{
				GarmentID:   id,
				GarmentName: garments[id].Name,
				StartDate:   startDate,
				EndDate:     endDate,
			}
		}
	}
	return nil
}

func itemGarmentIDs(items []ReservationItemInput) []int32 {
	ids := make([]int32, len(items))
	for i, item := range items {
		ids[i] = item.GarmentID
	}
	return ids
}

func reservationGarmentIDs(res *domain.Reservation) []int32 {
	ids := make([]int32, len(res.Items))
	for i, item := range res.Items {
		ids[i] = item.GarmentID
	}
	return ids
}
