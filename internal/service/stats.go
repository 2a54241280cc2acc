package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"closet-backend/internal/domain"
	"closet-backend/internal/repository"
)

const (
	historyMonths       = 6
	mostRentedLimit     = 3
	recentActivityLimit = 10
	otherCategory       = "Other"
)

type statsService struct {
	repos repository.Repositories
	now   func() time.Time
}

func NewStatsService(repos repository.Repositories) StatsService {
	return &statsService{repos: repos, now: time.Now}
}

// GetDashboard recomputes every metric from the current snapshot; nothing is
// cached between requests.
func (s *statsService) GetDashboard(ctx context.Context) (*domain.DashboardStats, error) {
	garments, err := s.repos.Garments.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	reservations, err := s.repos.Reservations.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	recurring, err := s.repos.Customers.CountRecurring(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	today := now.Format(domain.DateLayout)
	currentMonth := now.Format(domain.MonthLayout)

	stats := &domain.DashboardStats{
		TotalGarments:           int32(len(garments)),
		RecurringCustomersCount: recurring,
	}

	byCategory := make(map[string]int64)
	for i := range reservations {
		r := &reservations[i]

		switch r.Status {
		case domain.ReservationStatusConfirmed:
			stats.ActiveReservations++
			if r.StartDate > today {
				stats.FutureReservations++
			}
		case domain.ReservationStatusPickedUp:
			stats.ActiveReservations++
			if r.EndDate <= today {
				stats.UpcomingReturns++
			}
		}

		if r.CreatedOn.Format(domain.MonthLayout) == currentMonth {
			stats.MonthlyRevenueCents += int64(r.AmountPaidCents)
		}

		switch r.Status {
		case domain.ReservationStatusConfirmed, domain.ReservationStatusPickedUp, domain.ReservationStatusReturned:
			stats.ContractedRevenueCents += int64(r.TotalValueCents)
		}

		if r.Status != domain.ReservationStatusCancelled && r.Status != domain.ReservationStatusQuotation &&
			r.AmountPaidCents < r.TotalValueCents {
			stats.PendingReservations = append(stats.PendingReservations, *r)
			stats.PendingPaymentsCount++
		}

		// The whole reservation is attributed to the category of its first
		// item. Multi-category packages land entirely in one bucket; this is
		// intentional, matching historical reporting.
		byCategory[firstItemCategory(r)] += int64(r.TotalValueCents)
	}

	if len(garments) > 0 {
		stats.OccupancyRate = float64(stats.ActiveReservations) / float64(len(garments)) * 100
	}

	stats.RevenueByCategory = sortedCategoryRevenue(byCategory)
	stats.MostRented = mostRented(garments)
	stats.RecentActivities = s.recentActivities(ctx, reservations)

	history, err := s.monthlyHistory(ctx, reservations, now)
	if err != nil {
		return nil, err
	}
	stats.MonthlyHistory = history

	return stats, nil
}

func (s *statsService) UpsertProjection(ctx context.Context, month string, expectedValueCents int64) (*domain.MonthlyProjection, error) {
	if _, err := time.Parse(domain.MonthLayout, month); err != nil {
		return nil, domain.NewValidationError("invalid month %q, expected YYYY-MM", month)
	}
	if expectedValueCents < 0 {
		return nil, domain.NewValidationError("projected revenue cannot be negative")
	}
	p := &domain.MonthlyProjection{Month: month, ExpectedValueCents: expectedValueCents}
	if err := s.repos.Projections.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// monthlyHistory builds the last six calendar months (oldest first) of actual
// collections against staff projections.
func (s *statsService) monthlyHistory(ctx context.Context, reservations []domain.Reservation, now time.Time) ([]domain.MonthlyRevenue, error) {
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	months := make([]string, historyMonths)
	for i := 0; i < historyMonths; i++ {
		months[i] = firstOfMonth.AddDate(0, i-historyMonths+1, 0).Format(domain.MonthLayout)
	}

	projections, err := s.repos.Projections.GetRange(ctx, months)
	if err != nil {
		return nil, err
	}

	actuals := make(map[string]int64)
	for i := range reservations {
		actuals[reservations[i].CreatedOn.Format(domain.MonthLayout)] += int64(reservations[i].AmountPaidCents)
	}

	history := make([]domain.MonthlyRevenue, historyMonths)
	for i, month := range months {
		history[i] = domain.MonthlyRevenue{
			Month:          month,
			ActualCents:    actuals[month],
			ProjectedCents: projections[month],
		}
	}
	return history, nil
}

// recentActivities maps the newest reservations to coarse activity entries.
// reservations must already be sorted newest first.
func (s *statsService) recentActivities(ctx context.Context, reservations []domain.Reservation) []domain.Activity {
	limit := recentActivityLimit
	if len(reservations) < limit {
		limit = len(reservations)
	}

	names := make(map[int32]string)
	activities := make([]domain.Activity, 0, limit)
	for i := 0; i < limit; i++ {
		r := &reservations[i]

		name, ok := names[r.CustomerID]
		if !ok {
			if c, err := s.repos.Customers.GetByID(ctx, r.CustomerID); err == nil {
				name = c.Name
			}
			names[r.CustomerID] = name
		}

		var kind domain.ActivityType
		var description string
		switch r.Status {
		case domain.ReservationStatusReturned:
			kind = domain.ActivityTypeReturn
			description = fmt.Sprintf("Reservation #%d returned by %s", r.ID, name)
		case domain.ReservationStatusConfirmed:
			kind = domain.ActivityTypeReservation
			description = fmt.Sprintf("Reservation #%d confirmed for %s", r.ID, name)
		default:
			kind = domain.ActivityTypePayment
			description = fmt.Sprintf("Payment activity on reservation #%d (%s)", r.ID, name)
		}

		activities = append(activities, domain.Activity{
			ReservationID: r.ID,
			Type:          kind,
			Description:   description,
			Time:          r.CreatedOn,
			TimeLabel:     r.CreatedOn.Format("02/01/2006 15:04"),
		})
	}
	return activities
}

func firstItemCategory(r *domain.Reservation) string {
	if len(r.Items) == 0 || r.Items[0].Garment == nil || r.Items[0].Garment.Category == "" {
		return otherCategory
	}
	return r.Items[0].Garment.Category
}

func sortedCategoryRevenue(byCategory map[string]int64) []domain.CategoryRevenue {
	revenue := make([]domain.CategoryRevenue, 0, len(byCategory))
	for category, value := range byCategory {
		revenue = append(revenue, domain.CategoryRevenue{Category: category, ValueCents: value})
	}
	sort.Slice(revenue, func(i, j int) bool {
		if revenue[i].ValueCents != revenue[j].ValueCents {
			return revenue[i].ValueCents > revenue[j].ValueCents
		}
		return revenue[i].Category < revenue[j].Category
	})
	return revenue
}

func mostRented(garments []domain.Garment) []domain.Garment {
	top := make([]domain.Garment, len(garments))
	copy(top, garments)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].RentCount > top[j].RentCount
	})
	if len(top) > mostRentedLimit {
		top = top[:mostRentedLimit]
	}
	return top
}
