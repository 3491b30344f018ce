package project

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/AlgoRMind/algomind-be/internal/apperr"
	"github.com/AlgoRMind/algomind-be/internal/contribution"
	"github.com/AlgoRMind/algomind-be/internal/metrics"

	"github.com/google/uuid"
)

var (
	ErrProjectNotFound   = apperr.New(apperr.NotFound, "Project not found")
	ErrInvalidInput      = apperr.New(apperr.Validation, "invalid input")
	ErrInvalidAmount     = apperr.New(apperr.Validation, "Current fund exceeds the total fundraising goal.")
	ErrAmountNotPositive = apperr.New(apperr.Validation, "Contribution amount must be positive.")
)

// Producer publishes contribution events after commit.
type Producer interface {
	SendMessage(ctx context.Context, key string, value interface{}) error
}

type Service interface {
	CreateProject(ctx context.Context, fields Fields) (*Project, error)
	UpdateProject(ctx context.Context, id int64, fields Fields) (*Project, error)
	GetProject(ctx context.Context, id int64) (*Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	ListProjectsByUser(ctx context.Context, userID int64) ([]Project, error)
	DeleteProject(ctx context.Context, id int64) error
	AddFunding(ctx context.Context, id, amount int64, userID *int64) (*Project, error)
	ListContributions(ctx context.Context, id int64) ([]contribution.Contribution, error)
}

type service struct {
	repo          Repository
	contributions contribution.Repository
	tx            TxManager
	producer      Producer
	metrics       *metrics.Metrics
	logger        *slog.Logger
	now           func() time.Time
}

// NewService wires the project service. producer may be nil, in which case
// no events are published.
func NewService(repo Repository, contributions contribution.Repository, tx TxManager, producer Producer, m *metrics.Metrics, logger *slog.Logger) Service {
	return &service{
		repo:          repo,
		contributions: contributions,
		tx:            tx,
		producer:      producer,
		metrics:       m,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *service) CreateProject(ctx context.Context, fields Fields) (*Project, error) {
	if fields.UserID == nil || fields.Name == nil || *fields.Name == "" {
		return nil, ErrInvalidInput
	}

	now := s.now().UTC()
	project := &Project{
		ProjectHash: uuid.NewString(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if fields.ProjectHash != nil && *fields.ProjectHash == "" {
		fields.ProjectHash = nil
	}
	fields.applyTo(project)

	if err := checkAmounts(project); err != nil {
		return nil, err
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		if err := tx.Projects.Create(ctx, project); err != nil {
			return fmt.Errorf("insert project: %w", err)
		}
		track := &Track{
			ProjectID: project.ID,
			UserID:    project.UserID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Projects.CreateTrack(ctx, track); err != nil {
			return fmt.Errorf("insert project track: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	s.metrics.RecordProjectCreated(ctx)
	return project, nil
}

// UpdateProject merges fields into the stored project under a row lock.
func (s *service) UpdateProject(ctx context.Context, id int64, fields Fields) (*Project, error) {
	if fields.Name != nil && *fields.Name == "" {
		return nil, ErrInvalidInput
	}

	var updated *Project
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		project, err := tx.Projects.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		fields.applyTo(project)
		if err := checkAmounts(project); err != nil {
			return err
		}
		project.UpdatedAt = s.now().UTC()

		if err := tx.Projects.Update(ctx, project); err != nil {
			return err
		}
		updated = project
		return nil
	})
	if err != nil {
		return nil, wrapStoreError(fmt.Sprintf("update project %d", id), err)
	}
	return updated, nil
}

func (s *service) GetProject(ctx context.Context, id int64) (*Project, error) {
	project, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, wrapStoreError(fmt.Sprintf("get project %d", id), err)
	}
	return project, nil
}

func (s *service) ListProjects(ctx context.Context) ([]Project, error) {
	projects, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *service) ListProjectsByUser(ctx context.Context, userID int64) ([]Project, error) {
	projects, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list projects of user %d: %w", userID, err)
	}
	return projects, nil
}

func (s *service) DeleteProject(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return wrapStoreError(fmt.Sprintf("delete project %d", id), err)
	}
	return nil
}

// AddFunding adds amount to the project's current fund and records the
// contribution in the same transaction. The total never exceeds
// fund_raise_total and fund_raise_count grows by one per success. The
// returned project is the row as persisted.
func (s *service) AddFunding(ctx context.Context, id, amount int64, userID *int64) (*Project, error) {
	if amount <= 0 {
		s.metrics.RecordContributionRejected(ctx, "non_positive")
		return nil, ErrAmountNotPositive
	}

	var (
		funded *Project
		record *contribution.Contribution
	)
	err := s.tx.RunInTx(ctx, func(ctx context.Context, tx Tx) error {
		project, err := tx.Projects.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if amount > project.FundRaiseTotal-project.CurrentFund {
			return ErrInvalidAmount
		}

		now := s.now().UTC()
		project.CurrentFund += amount
		project.UpdatedAt = now
		if err := tx.Projects.UpdateFunding(ctx, project); err != nil {
			return err
		}

		c := &contribution.Contribution{
			ProjectID: id,
			UserID:    userID,
			Amount:    amount,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := tx.Contributions.Create(ctx, c); err != nil {
			return fmt.Errorf("insert contribution: %w", err)
		}

		funded, record = project, c
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInvalidAmount) {
			s.metrics.RecordContributionRejected(ctx, "exceeds_goal")
		}
		return nil, wrapStoreError(fmt.Sprintf("add funding to project %d", id), err)
	}

	s.metrics.RecordContribution(ctx, amount)
	s.publish(ctx, funded, record)
	return funded, nil
}

func (s *service) ListContributions(ctx context.Context, id int64) ([]contribution.Contribution, error) {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return nil, wrapStoreError(fmt.Sprintf("get project %d", id), err)
	}

	contributions, err := s.contributions.ListByProject(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list contributions of project %d: %w", id, err)
	}
	return contributions, nil
}

// publish is best effort; a failed send never undoes a committed contribution.
func (s *service) publish(ctx context.Context, project *Project, c *contribution.Contribution) {
	if s.producer == nil {
		return
	}

	event := contribution.Event{
		ContributionID: c.ID,
		ProjectID:      project.ID,
		UserID:         c.UserID,
		Amount:         c.Amount,
		CurrentFund:    project.CurrentFund,
		FundRaiseTotal: project.FundRaiseTotal,
		FundRaiseCount: project.FundRaiseCount,
		CreatedAt:      c.CreatedAt,
	}
	if err := s.producer.SendMessage(ctx, strconv.FormatInt(project.ID, 10), event); err != nil {
		s.logger.WarnContext(ctx, "failed to publish contribution event",
			"project_id", project.ID, "contribution_id", c.ID, "error", err)
	}
}

func checkAmounts(p *Project) error {
	if p.CurrentFund < 0 || p.FundRaiseTotal < 0 {
		return ErrInvalidInput
	}
	if p.CurrentFund > p.FundRaiseTotal {
		return ErrInvalidAmount
	}
	return nil
}

// wrapStoreError keeps tagged errors as they are and adds context to the rest.
func wrapStoreError(op string, err error) error {
	var tagged *apperr.Error
	if errors.As(err, &tagged) {
		return err
	}
	return fmt.Errorf("%s: %w", op, err)
}
