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

type garmentRepository struct {
	db DBTX
}

func NewGarmentRepository(db DBTX) repository.GarmentRepository {
	return &garmentRepository{db: db}
}

const garmentColumns = `id, name, category, size, measurements, rental_price_cents, deposit_price_cents, image_url, rent_count, status, created_on, updated_on`

func (r *garmentRepository) Create(ctx context.Context, g *domain.Garment) error {
	measurements, err := marshalMeasurements(g.Measurements)
	if err != nil {
		return err
	}
	now := time.Now()
	query := `INSERT INTO garments (name, category, size, measurements, rental_price_cents, deposit_price_cents, image_url, rent_count, status, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	err = r.db.QueryRowContext(ctx, query,
		g.Name, g.Category, g.Size, measurements, g.RentalPriceCents, g.DepositPriceCents,
		g.ImageURL, g.RentCount, g.Status, now, now).Scan(&g.ID)
	if err != nil {
		return domain.NewStoreError("create garment", err)
	}
	g.CreatedOn = now
	g.UpdatedOn = now
	return nil
}

func (r *garmentRepository) GetByID(ctx context.Context, id int32) (*domain.Garment, error) {
	query := `SELECT ` + garmentColumns + ` FROM garments WHERE id = $1`
	g, err := scanGarment(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.NotFoundError{Entity: "garment", ID: id}
	}
	if err != nil {
		return nil, domain.NewStoreError("get garment", err)
	}
	return g, nil
}

func (r *garmentRepository) GetByIDs(ctx context.Context, ids []int32) ([]domain.Garment, error) {
	query := `SELECT ` + garmentColumns + ` FROM garments WHERE id = ANY($1) ORDER BY id`
	return r.queryGarments(ctx, "get garments", query, pq.Array(ids))
}

func (r *garmentRepository) LockForUpdate(ctx context.Context, ids []int32) ([]domain.Garment, error) {
	query := `SELECT ` + garmentColumns + ` FROM garments WHERE id = ANY($1) ORDER BY id FOR UPDATE`
	return r.queryGarments(ctx, "lock garments", query, pq.Array(ids))
}

func (r *garmentRepository) Update(ctx context.Context, g *domain.Garment) error {
	measurements, err := marshalMeasurements(g.Measurements)
	if err != nil {
		return err
	}
	query := `UPDATE garments SET name=$1, category=$2, size=$3, measurements=$4, rental_price_cents=$5,
	          deposit_price_cents=$6, image_url=$7, updated_on=$8 WHERE id=$9`
	res, err := r.db.ExecContext(ctx, query,
		g.Name, g.Category, g.Size, measurements, g.RentalPriceCents, g.DepositPriceCents,
		g.ImageURL, time.Now(), g.ID)
	if err != nil {
		return domain.NewStoreError("update garment", err)
	}
	return checkAffected(res, "garment", g.ID)
}

func (r *garmentRepository) Delete(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM garments WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return &domain.ReferentialConflictError{Entity: "garment", ID: id, DependsOn: "reservations"}
		}
		return domain.NewStoreError("delete garment", err)
	}
	return checkAffected(res, "garment", id)
}

func (r *garmentRepository) List(ctx context.Context, query string, page, pageSize int32) ([]domain.Garment, int32, error) {
	where := ""
	args := []any{}
	if query != "" {
		where = ` WHERE name ILIKE $1 OR category ILIKE $1`
		args = append(args, "%"+query+"%")
	}

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM garments`+where, args...).Scan(&count); err != nil {
		return nil, 0, domain.NewStoreError("count garments", err)
	}

	sel := `SELECT ` + garmentColumns + ` FROM garments` + where +
		fmt.Sprintf(` ORDER BY created_on DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, pageSize, (page-1)*pageSize)

	garments, err := r.queryGarments(ctx, "list garments", sel, args...)
	if err != nil {
		return nil, 0, err
	}
	return garments, count, nil
}

func (r *garmentRepository) ListAll(ctx context.Context) ([]domain.Garment, error) {
	query := `SELECT ` + garmentColumns + ` FROM garments ORDER BY created_on DESC`
	return r.queryGarments(ctx, "list all garments", query)
}

func (r *garmentRepository) SetStatus(ctx context.Context, id int32, status domain.GarmentStatus, note string) error {
	now := time.Now()
	res, err := r.db.ExecContext(ctx,
		`UPDATE garments SET status=$1, updated_on=$2 WHERE id=$3`, status, now, id)
	if err != nil {
		return domain.NewStoreError("set garment status", err)
	}
	if err := checkAffected(res, "garment", id); err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO garment_history (garment_id, status, note, created_on) VALUES ($1, $2, $3, $4)`,
		id, status, note, now)
	if err != nil {
		return domain.NewStoreError("append garment history", err)
	}
	return nil
}

func (r *garmentRepository) IncrementRentCount(ctx context.Context, id int32) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE garments SET rent_count = rent_count + 1, updated_on = $1 WHERE id = $2`, time.Now(), id)
	if err != nil {
		return domain.NewStoreError("increment rent count", err)
	}
	return checkAffected(res, "garment", id)
}

func (r *garmentRepository) ListHistory(ctx context.Context, garmentID int32) ([]domain.GarmentHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, garment_id, status, note, created_on FROM garment_history WHERE garment_id = $1 ORDER BY created_on, id`,
		garmentID)
	if err != nil {
		return nil, domain.NewStoreError("list garment history", err)
	}
	defer rows.Close()

	var history []domain.GarmentHistory
	for rows.Next() {
		var h domain.GarmentHistory
		if err := rows.Scan(&h.ID, &h.GarmentID, &h.Status, &h.Note, &h.CreatedOn); err != nil {
			return nil, domain.NewStoreError("scan garment history", err)
		}
		history = append(history, h)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("list garment history", err)
	}
	return history, nil
}

func (r *garmentRepository) CreateImage(ctx context.Context, img *domain.GarmentImage) error {
	now := time.Now()
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO garment_images (garment_id, file_name, file_path, public_url, is_primary, created_on)
		 VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		img.GarmentID, img.FileName, img.FilePath, img.PublicURL, img.IsPrimary, now).Scan(&img.ID)
	if err != nil {
		return domain.NewStoreError("create garment image", err)
	}
	img.CreatedOn = now
	return nil
}

func (r *garmentRepository) ListImages(ctx context.Context, garmentID int32) ([]domain.GarmentImage, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, garment_id, file_name, file_path, public_url, is_primary, created_on
		 FROM garment_images WHERE garment_id = $1 ORDER BY created_on, id`, garmentID)
	if err != nil {
		return nil, domain.NewStoreError("list garment images", err)
	}
	defer rows.Close()

	var images []domain.GarmentImage
	for rows.Next() {
		var img domain.GarmentImage
		if err := rows.Scan(&img.ID, &img.GarmentID, &img.FileName, &img.FilePath, &img.PublicURL, &img.IsPrimary, &img.CreatedOn); err != nil {
			return nil, domain.NewStoreError("scan garment image", err)
		}
		images = append(images, img)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("list garment images", err)
	}
	return images, nil
}

func (r *garmentRepository) SetPrimaryImageURL(ctx context.Context, garmentID int32, url string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE garments SET image_url = $1, updated_on = $2 WHERE id = $3`, url, time.Now(), garmentID)
	if err != nil {
		return domain.NewStoreError("set primary image", err)
	}
	return checkAffected(res, "garment", garmentID)
}

func (r *garmentRepository) queryGarments(ctx context.Context, op, query string, args ...any) ([]domain.Garment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, domain.NewStoreError(op, err)
	}
	defer rows.Close()

	var garments []domain.Garment
	for rows.Next() {
		g, err := scanGarment(rows)
		if err != nil {
			return nil, domain.NewStoreError(op, err)
		}
		garments = append(garments, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError(op, err)
	}
	return garments, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGarment(row rowScanner) (*domain.Garment, error) {
	var g domain.Garment
	var measurements []byte
	err := row.Scan(&g.ID, &g.Name, &g.Category, &g.Size, &measurements,
		&g.RentalPriceCents, &g.DepositPriceCents, &g.ImageURL, &g.RentCount,
		&g.Status, &g.CreatedOn, &g.UpdatedOn)
	if err != nil {
		return nil, err
	}
	if len(measurements) > 0 {
		if err := json.Unmarshal(measurements, &g.Measurements); err != nil {
			return nil, fmt.Errorf("decode measurements: %w", err)
		}
	}
	return &g, nil
}

func marshalMeasurements(m map[string]string) ([]byte, error) {
	if m == nil {
		m = map[string]string{}
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, domain.NewStoreError("encode measurements", err)
	}
	return data, nil
}

func checkAffected(res sql.Result, entity string, id int32) error {
	n, err := res.RowsAffected()
	if err != nil {
		return domain.NewStoreError("rows affected", err)
	}
	if n == 0 {
		return &domain.NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23503"
	}
	return false
}
