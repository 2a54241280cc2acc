package jobs

import (
	"context"
	"fmt"
	"strings"
	"time"

	"closet-backend/internal/domain"
	"closet-backend/internal/logger"
)

const jobTimeout = 5 * time.Minute

// ReportOverdueReturns finds picked-up reservations whose end date has passed
// and emails the staff a summary. Nothing is mutated; overdue handling is a
// staff decision.
func (jr *JobRunner) ReportOverdueReturns() {
	jr.runWithRecovery("ReportOverdueReturns", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		reservations, err := jr.repos.Reservations.ListAll(ctx)
		if err != nil {
			logger.Error("list reservations for overdue report", "error", err)
			return
		}

		today := jr.now().Format(domain.DateLayout)
		var overdue []domain.Reservation
		for i := range reservations {
			r := &reservations[i]
			if r.Status == domain.ReservationStatusPickedUp && r.EndDate < today {
				overdue = append(overdue, *r)
			}
		}

		if len(overdue) == 0 {
			logger.Info("no overdue returns")
			return
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%d reservation(s) past their return date as of %s:\n\n", len(overdue), today)
		for i := range overdue {
			r := &overdue[i]
			name := "unknown customer"
			if c, err := jr.repos.Customers.GetByID(ctx, r.CustomerID); err == nil {
				name = c.Name
			}
			fmt.Fprintf(&b, "- Reservation #%d for %s, due back %s (%d garment(s))\n",
				r.ID, name, r.EndDate, len(r.Items))
			logger.Warn("overdue return", "reservation_id", r.ID, "customer_id", r.CustomerID, "end_date", r.EndDate)
		}

		subject := fmt.Sprintf("Overdue returns report - %s", today)
		if err := jr.email.SendStaffReport(ctx, subject, b.String()); err != nil {
			logger.Error("send overdue returns report", "error", err)
		}
	})
}

// ReportStaleQuotations logs quotations whose start date has already passed.
// Stale quotations hold no garments, so this is informational only.
func (jr *JobRunner) ReportStaleQuotations() {
	jr.runWithRecovery("ReportStaleQuotations", func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		reservations, err := jr.repos.Reservations.ListAll(ctx)
		if err != nil {
			logger.Error("list reservations for stale quotation report", "error", err)
			return
		}

		today := jr.now().Format(domain.DateLayout)
		stale := 0
		for i := range reservations {
			r := &reservations[i]
			if r.Status == domain.ReservationStatusQuotation && r.StartDate < today {
				stale++
				logger.Info("stale quotation", "reservation_id", r.ID, "customer_id", r.CustomerID, "start_date", r.StartDate)
			}
		}
		logger.Info("stale quotation report finished", "count", stale)
	})
}
