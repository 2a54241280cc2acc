package postgres

import (
	"context"
	"time"

	"closet-backend/internal/domain"
	"closet-backend/internal/repository"

	"github.com/lib/pq"
)

type projectionRepository struct {
	db DBTX
}

func NewProjectionRepository(db DBTX) repository.ProjectionRepository {
	return &projectionRepository{db: db}
}

func (r *projectionRepository) Upsert(ctx context.Context, p *domain.MonthlyProjection) error {
	now := time.Now()
	query := `INSERT INTO monthly_projections (month, expected_value_cents, updated_on)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (month) DO UPDATE SET expected_value_cents = EXCLUDED.expected_value_cents, updated_on = EXCLUDED.updated_on`
	if _, err := r.db.ExecContext(ctx, query, p.Month, p.ExpectedValueCents, now); err != nil {
		return domain.NewStoreError("upsert monthly projection", err)
	}
	p.UpdatedOn = now
	return nil
}

func (r *projectionRepository) GetRange(ctx context.Context, months []string) (map[string]int64, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT month, expected_value_cents FROM monthly_projections WHERE month = ANY($1)`,
		pq.Array(months))
	if err != nil {
		return nil, domain.NewStoreError("get monthly projections", err)
	}
	defer rows.Close()

	projections := make(map[string]int64)
	for rows.Next() {
		var month string
		var cents int64
		if err := rows.Scan(&month, &cents); err != nil {
			return nil, domain.NewStoreError("scan monthly projection", err)
		}
		projections[month] = cents
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewStoreError("get monthly projections", err)
	}
	return projections, nil
}
