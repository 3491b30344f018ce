package fund

import (
	"context"
	"fmt"
	"time"

	"github.com/AlgoRMind/algomind-be/internal/apperr"
)

var ErrInvalidInput = apperr.New(apperr.Validation, "invalid input")

type Service interface {
	CreateFund(ctx context.Context, req CreateRequest) (*Fund, error)
	UpdateFund(ctx context.Context, id int64, req UpdateRequest) error
	ListFundsByUser(ctx context.Context, userID int64) ([]Fund, error)
}

type service struct {
	repo Repository
	now  func() time.Time
}

func NewService(repo Repository) Service {
	return &service{
		repo: repo,
		now:  time.Now,
	}
}

func (s *service) CreateFund(ctx context.Context, req CreateRequest) (*Fund, error) {
	now := s.now().UTC()
	fund := &Fund{
		NameFund:    req.NameFund,
		UserID:      req.UserID,
		Members:     normalizeMembers(req.Members),
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, fund); err != nil {
		return nil, fmt.Errorf("create fund: %w", err)
	}
	return fund, nil
}

func (s *service) UpdateFund(ctx context.Context, id int64, req UpdateRequest) error {
	if id <= 0 {
		return ErrInvalidInput
	}

	fund := &Fund{
		ID:          id,
		NameFund:    req.NameFund,
		Members:     normalizeMembers(req.Members),
		Description: req.Description,
		UpdatedAt:   s.now().UTC(),
	}

	if err := s.repo.Update(ctx, fund); err != nil {
		return fmt.Errorf("update fund %d: %w", id, err)
	}
	return nil
}

func (s *service) ListFundsByUser(ctx context.Context, userID int64) ([]Fund, error) {
	if userID <= 0 {
		return nil, ErrInvalidInput
	}

	funds, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list funds of user %d: %w", userID, err)
	}
	return funds, nil
}

func normalizeMembers(members []int64) []int64 {
	if members == nil {
		return []int64{}
	}
	return members
}
