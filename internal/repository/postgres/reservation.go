package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"closet-backend/internal/domain"
	"closet-backend/internal/repository"

	"github.com/lib/pq"
)

type reservationRepository struct {
	db DBTX
}

func NewReservationRepository(db DBTX) repository.ReservationRepository {
	return &reservationRepository{db: db}
}

const reservationColumns = `id, customer_id, start_date, end_date, status, total_value_cents,
	deposit_value_cents, amount_paid_cents, payment_status, payment_method, discount_percent,
	return_checklist, created_on, updated_on`

func (r *reservationRepository) Create(ctx context.Context, res *domain.Reservation) error {
	checklist, err := marshalChecklist(res.ReturnChecklist)
	if err != nil {
		return err
	}
	now := time.Now()
	query := `INSERT INTO reservations (customer_id, start_date, end_date, status, total_value_cents,
	          deposit_value_cents, amount_paid_cents, payment_status, payment_method, discount_percent,
	          return_checklist, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING id`
	err = r.db.QueryRowContext(ctx, query,
		res.CustomerID, res.StartDate, res.EndDate, res.Status, res.TotalValueCents,
		res.DepositValueCents, res.AmountPaidCents, res.PaymentStatus, res.PaymentMethod,
		res.DiscountPercent, checklist, now, now).Scan(&res.ID)
	if err != nil {
		return domain.NewStoreError("create reservation", err)
	}
	res.CreatedOn = now
	res.UpdatedOn = now
	return nil
}

func (r *reservationRepository) CreateItems(ctx context.Context, reservationID int32, items []domain.ReservationItem) error {
	for _, item := range items {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO reservation_items (reservation_id, garment_id, size) VALUES ($1, $2, $3)`,
			reservationID, item.GarmentID, item.Size)
		if err != nil {
			return domain.NewStoreError("create reservation item", err)
		}
	}
	return nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int32) (*domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	res, err := scanReservation(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "reservation", ID: id}
	}
	if err != nil {
		return nil, domain.NewStoreError("get reservation", err)
	}
	itemsByRes, err := r.loadItems(ctx, []int32{id})
	if err != nil {
		return nil, err
	}
	res.Items = itemsByRes[id]
	return res, nil
}

func (r *reservationRepository) Update(ctx context.Context, res *domain.Reservation) error {
	checklist, err := marshalChecklist(res.ReturnChecklist)
	if err != nil {
		return err
	}
	query := `UPDATE reservations SET status=$1, amount_paid_cents=$2, payment_status=$3,
	          return_checklist=$4, updated_on=$5 WHERE id=$6`
	result, err := r.db.ExecContext(ctx, query,
		res.Status, res.AmountPaidCents, res.PaymentStatus, checklist, time.Now(), res.ID)
	if err != nil {
		return domain.NewStoreError("update reservation", err)
	}
	return checkAffected(result, "reservation", res.ID)
}

func (r *reservationRepository) List(ctx context.Context, status domain.ReservationStatus, page, pageSize int32) ([]domain.Reservation, int32, error) {
	where := ""
	args := []any{}
	if status != "" {
		where = ` WHERE status = $1`
		args = append(args, status)
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM reservations`+where, args...).Scan(&count); err != nil {
		return nil, 0, domain.NewStoreError("count reservations", err)
	}

	sel := `SELECT ` + reservationColumns + ` FROM reservations` + where +
		fmt.Sprintf(` ORDER BY created_on DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	reservations, err := r.queryReservations(ctx, "list reservations", sel, args...)
	if err != nil {
		return nil, 0, err
	}
	if err := r.attachItems(ctx, reservations); err != nil {
		return nil, 0, err
	}
	return reservations, count, nil
}

func (r *reservationRepository) ListAll(ctx context.Context) ([]domain.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations ORDER BY created_on DESC`
	reservations, err := r.queryReservations(ctx, "list all reservations", query)
	if err != nil {
		return nil, err
	}
	if err := r.attachItems(ctx, reservations); err != nil {
		return nil, err
	}
	return reservations, nil
}

func (r *reservationRepository) HasActiveConflict(ctx context.Context, garmentID int32, startDate, endDate string, excludeID int32) (bool, error) {
	// Inclusive overlap on both ends: touching boundary dates conflict, so a
	// same-day handover between two bookings is not permitted.
	query := `SELECT EXISTS (
		SELECT 1 FROM reservations res
		JOIN reservation_items ri ON ri.reservation_id = res.id
		WHERE ri.garment_id = $1
		  AND res.status NOT IN ($2, $3, $4)
		  AND res.start_date <= $6
		  AND res.end_date >= $5
		  AND ($7 = 0 OR res.id <> $7)
	)`
	var conflict bool
	err := r.db.QueryRowContext(ctx, query,
		garmentID,
		domain.ReservationStatusQuotation, domain.ReservationStatusCancelled, domain.ReservationStatusReturned,
		startDate, endDate, excludeID).Scan(&conflict)
	if err != nil {
		return false, domain.NewStoreError("check availability", err)
	}
	return conflict, nil
}

func (r *reservationRepository) CountByCustomer(ctx context.Context, customerID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM reservations WHERE customer_id = $1`, customerID).Scan(&count)
	if err != nil {
		return 0, domain.NewStoreError("count reservations by customer", err)
	}
	return count, nil
}

func (r *reservationRepository) CountByGarment(ctx context.Context, garmentID int32) (int32, error) {
	var count int32
	err := r.db.QueryRowContext(ctx,
		`SELECT count(*) FROM reservation_items WHERE garment_id = $1`, garmentID).Scan(&count)
	if err != nil {
		return 0, domain.NewStoreError("count reservations by garment", err)
	}
	return count, nil
}

func (r *reservationRepository) queryReservations(ctx context.Context, op, query string, args ...any) ([]domain.Reservation, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError(op, err)
	}
	defer rows.Close()

	var reservations []domain.Reservation
	for rows.Next() {
		res, err := scanReservation(rows)
		if err != nil {
			return nil, domain.NewStoreError(op, err)
		}
		reservations = append(reservations, *res)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError(op, err)
	}
	return reservations, nil
}

func (r *reservationRepository) attachItems(ctx context.Context, reservations []domain.Reservation) error {
	if len(reservations) == 0 {
		return nil
	}
	ids := make([]int32, len(reservations))
	for i := range reservations {
		ids[i] = reservations[i].ID
	}
	itemsByRes, err := r.loadItems(ctx, ids)
	if err != nil {
		return err
	}
	for i := range reservations {
		reservations[i].Items = itemsByRes[reservations[i].ID]
	}
	return nil
}

// loadItems fetches item rows with their garments joined in, keyed by
// reservation id.
func (r *reservationRepository) loadItems(ctx context.Context, reservationIDs []int32) (map[int32][]domain.ReservationItem, error) {
	query := `SELECT ri.reservation_id, ri.garment_id, ri.size,
	          g.name, g.category, g.size, g.rental_price_cents, g.deposit_price_cents,
	          g.image_url, g.rent_count, g.status, g.created_on, g.updated_on
	          FROM reservation_items ri
	          JOIN garments g ON g.id = ri.garment_id
	          WHERE ri.reservation_id = ANY($1)
	          ORDER BY ri.reservation_id, ri.id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(reservationIDs))
	if err != nil {
		return nil, domain.NewStoreError("load reservation items", err)
	}
	defer rows.Close()

	items := make(map[int32][]domain.ReservationItem)
	for rows.Next() {
		var resID int32
		var item domain.ReservationItem
		var g domain.Garment
		err := rows.Scan(&resID, &item.GarmentID, &item.Size,
			&g.Name, &g.Category, &g.Size, &g.RentalPriceCents, &g.DepositPriceCents,
			&g.ImageURL, &g.RentCount, &g.Status, &g.CreatedOn, &g.UpdatedOn)
		if err != nil {
			return nil, domain.NewStoreError("scan reservation item", err)
		}
		g.ID = item.GarmentID
		if item.Size == "" {
			item.Size = g.Size
		}
		item.Garment = &g
		items[resID] = append(items[resID], item)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("load reservation items", err)
	}
	return items, nil
}

func scanReservation(row rowScanner) (*domain.Reservation, error) {
	var res domain.Reservation
	var checklist []byte
	var method sql.NullString
	err := row.Scan(&res.ID, &res.CustomerID, &res.StartDate, &res.EndDate, &res.Status,
		&res.TotalValueCents, &res.DepositValueCents, &res.AmountPaidCents, &res.PaymentStatus,
		&method, &res.DiscountPercent, &checklist, &res.CreatedOn, &res.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if method.Valid {
		res.PaymentMethod = domain.PaymentMethod(method.String)
	}
	if len(checklist) > 0 {
		var cl domain.ReturnChecklist
		if err := json.Unmarshal(checklist, &cl); err != nil {
			return nil, fmt.Errorf("decode return checklist: %w", err)
		}
		res.ReturnChecklist = &cl
	}
	return &res, nil
}

func marshalChecklist(cl *domain.ReturnChecklist) (any, error) {
	if cl == nil {
		return nil, nil
	}
	data, err := json.Marshal(cl)
	if err != nil {
		return nil, domain.NewStoreError("encode return checklist", err)
	}
	return data, nil
}
