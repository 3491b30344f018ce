package fund

import (
	"context"
	"time"

	"github.com/AlgoRMind/algomind-be/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, fund *Fund) error
	Update(ctx context.Context, fund *Fund) error
	ListByUser(ctx context.Context, userID int64) ([]Fund, error)
}

type repository struct {
	db      bun.IDB
	metrics *metrics.Metrics
}

func NewRepository(db bun.IDB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) Create(ctx context.Context, fund *Fund) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(fund).Returning("id").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "funds", time.Since(start), err)

	return err
}

// Update overwrites name, members, description and updated_at. A missing
// fund is not an error.
func (r *repository) Update(ctx context.Context, fund *Fund) error {
	start := time.Now()
	_, err := r.db.NewUpdate().
		Model(fund).
		Column("name_fund", "members", "description", "updated_at").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "funds", time.Since(start), err)

	return err
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]Fund, error) {
	start := time.Now()
	funds := make([]Fund, 0)
	err := r.db.NewSelect().
		Model(&funds).
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "funds", time.Since(start), err)

	return funds, err
}
