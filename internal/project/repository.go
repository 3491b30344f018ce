package project

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/AlgoRMind/algomind-be/internal/contribution"
	"github.com/AlgoRMind/algomind-be/internal/metrics"

	"github.com/uptrace/bun"
)

type Repository interface {
	Create(ctx context.Context, project *Project) error
	CreateTrack(ctx context.Context, track *Track) error
	GetAll(ctx context.Context) ([]Project, error)
	GetByID(ctx context.Context, id int64) (*Project, error)
	// GetForUpdate locks the live row until the surrounding transaction ends.
	GetForUpdate(ctx context.Context, id int64) (*Project, error)
	ListByUser(ctx context.Context, userID int64) ([]Project, error)
	Update(ctx context.Context, project *Project) error
	UpdateFunding(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id int64) error
}

// Tx groups the repositories bound to one database transaction.
type Tx struct {
	Projects      Repository
	Contributions contribution.Repository
}

type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
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

type txManager struct {
	db      *bun.DB
	metrics *metrics.Metrics
}

func NewTxManager(db *bun.DB, m *metrics.Metrics) TxManager {
	return &txManager{
		db:      db,
		metrics: m,
	}
}

// RunInTx commits when fn returns nil and rolls back otherwise.
func (t *txManager) RunInTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error {
	return t.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx, Tx{
			Projects:      NewRepository(tx, t.metrics),
			Contributions: contribution.NewRepository(tx, t.metrics),
		})
	})
}

func (r *repository) Create(ctx context.Context, project *Project) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(project).Returning("*").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "projects", time.Since(start), err)

	return err
}

func (r *repository) CreateTrack(ctx context.Context, track *Track) error {
	start := time.Now()
	_, err := r.db.NewInsert().Model(track).Returning("id").Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "insert", "project_tracks", time.Since(start), err)

	return err
}

func (r *repository) GetAll(ctx context.Context) ([]Project, error) {
	start := time.Now()
	projects := make([]Project, 0)
	err := r.db.NewSelect().Model(&projects).Order("id ASC").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "projects", time.Since(start), err)

	return projects, err
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Project, error) {
	start := time.Now()
	project := new(Project)
	err := r.db.NewSelect().Model(project).Where("id = ?", id).Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "projects", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func (r *repository) GetForUpdate(ctx context.Context, id int64) (*Project, error) {
	start := time.Now()
	project := new(Project)
	err := r.db.NewSelect().Model(project).Where("id = ?", id).For("UPDATE").Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select_for_update", "projects", time.Since(start), err)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, err
	}
	return project, nil
}

func (r *repository) ListByUser(ctx context.Context, userID int64) ([]Project, error) {
	start := time.Now()
	projects := make([]Project, 0)
	err := r.db.NewSelect().
		Model(&projects).
		Where("user_id = ?", userID).
		Order("id ASC").
		Scan(ctx)

	r.metrics.Database.RecordQuery(ctx, "select", "projects", time.Since(start), err)

	return projects, err
}

// Update writes every mutable column. fund_raise_count and created_at are
// left untouched.
func (r *repository) Update(ctx context.Context, project *Project) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(project).
		Column("user_id", "name", "description", "fund_id", "current_fund", "fund_raise_total",
			"deadline", "project_hash", "is_verify", "status", "updated_at").
		WherePK().
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "projects", time.Since(start), err)

	return checkAffected(result, err)
}

// UpdateFunding stores current_fund and updated_at and advances
// fund_raise_count by one, scanning the new count back into project.
func (r *repository) UpdateFunding(ctx context.Context, project *Project) error {
	start := time.Now()
	result, err := r.db.NewUpdate().
		Model(project).
		Set("current_fund = ?", project.CurrentFund).
		Set("fund_raise_count = fund_raise_count + 1").
		Set("updated_at = ?", project.UpdatedAt).
		WherePK().
		Returning("fund_raise_count").
		Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "update", "projects", time.Since(start), err)

	return checkAffected(result, err)
}

// Delete stamps deleted_at; the row stays in the table.
func (r *repository) Delete(ctx context.Context, id int64) error {
	start := time.Now()
	project := &Project{ID: id}
	result, err := r.db.NewDelete().Model(project).WherePK().Exec(ctx)

	r.metrics.Database.RecordQuery(ctx, "soft_delete", "projects", time.Since(start), err)

	return checkAffected(result, err)
}

func checkAffected(result sql.Result, err error) error {
	if err != nil {
		return err
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrProjectNotFound
	}
	return nil
}
