package contribution

import (
	"context"
	"time"

	"github.com/AlgoRMind/algomind-be/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, c *Contribution) error
	ListByProject(ctx context.Context, projectID int64) ([]Contribution, error)
	CountByProject(ctx context.Context, projectID int64) (int, error)
}

type repository struct {
	db      bun.IDB
	metrics *metrics.Metrics
}

// NewRepository binds to db, which may be a pool or a transaction.
func NewRepository(db bun.IDB, m *metrics.Metrics) Repository {
	return &repository{
		db:      db,
		metrics: m,
	}
}

func (r *repository) Create(ctx context.Context, c *Contribution) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(c).Returning("id").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "contributions", time.Since(start), err)

	return err
}

// ListByProject returns contributions newest first.
func (r *repository) ListByProject(ctx context.Context, projectID int64) ([]Contribution, error) {
	start := time.Now()
	contributions := make([]Contribution, 0)
	err := r.db.NewSelect().
		Model(&contributions).
		Where("project_id = ?", projectID).
		Order("created_at DESC", "id DESC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "contributions", time.Since(start), err)

	return contributions, err
}

func (r *repository) CountByProject(ctx context.Context, projectID int64) (int, error) {
	start := time.Now()
	count, err := r.db.NewSelect().
		Model((*Contribution)(nil)).
		Where("project_id = ?", projectID).
		Count(ctx)

	r.metrics.Database.RecordQuery(ctx, "count", "contributions", time.Since(start), err)

	return count, err
}
