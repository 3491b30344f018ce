package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AlgoRMind/algomind-be/internal/apperr"
	"github.com/AlgoRMind/algomind-be/internal/db"
	"github.com/AlgoRMind/algomind-be/internal/fund"
	"github.com/AlgoRMind/algomind-be/internal/httputil"
	"github.com/AlgoRMind/algomind-be/internal/metrics"
	"github.com/AlgoRMind/algomind-be/internal/project"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = apperr.New(apperr.Unauthorized, "Unauthorized")
	ErrEmailExists        = apperr.New(apperr.Conflict, "email already exists")
	ErrInvalidInput       = apperr.New(apperr.Validation, "invalid input")
)

type ProjectLister interface {
	ListProjectsByUser(ctx context.Context, userID int64) ([]project.Project, error)
}

type FundLister interface {
	ListFundsByUser(ctx context.Context, userID int64) ([]fund.Fund, error)
}

type Service struct {
	repo     Repository
	projects ProjectLister
	funds    FundLister
	metrics  *metrics.Metrics
	hashCost int
}

func NewService(repo Repository, projects ProjectLister, funds FundLister, m *metrics.Metrics) *Service {
	return &Service{
		repo:     repo,
		projects: projects,
		funds:    funds,
		metrics:  m,
		hashCost: bcrypt.DefaultCost,
	}
}

// SignIn verifies the credentials and loads the user's projects and funds.
func (s *Service) SignIn(ctx context.Context, req SignInRequest) (*SignInProfile, error) {
	u, err := s.repo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.metrics.RecordSignInFailure(ctx)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(req.Password)); err != nil {
		s.metrics.RecordSignInFailure(ctx)
		return nil, ErrInvalidCredentials
	}

	projects, err := s.projects.ListProjectsByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	funds, err := s.funds.ListFundsByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	profile := &SignInProfile{
		Profile:  u.Profile(),
		Projects: make([]project.Summary, 0, len(projects)),
		Funds:    make([]fund.Summary, 0, len(funds)),
	}
	for i := range projects {
		profile.Projects = append(profile.Projects, projects[i].Summary())
	}
	for i := range funds {
		profile.Funds = append(profile.Funds, funds[i].Summary())
	}
	return profile, nil
}

// Register stores a new user with a bcrypt hash of the password.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*User, error) {
	birthday, err := time.Parse(httputil.DateLayout, req.Birthday)
	if err != nil {
		return nil, ErrInvalidInput
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, ErrInvalidInput
	}
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &User{
		Email:     req.Email,
		Username:  req.Name,
		Password:  string(hashedPassword),
		Birthday:  birthday,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		if db.IsUniqueViolation(err) {
			return nil, apperr.Wrap(apperr.Conflict, ErrEmailExists.Msg, err)
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.metrics.RecordUserRegistered(ctx)
	return u, nil
}

func (s *Service) ListUsers(ctx context.Context) ([]Listing, error) {
	users, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	listing := make([]Listing, 0, len(users))
	for _, u := range users {
		listing = append(listing, Listing{ID: u.ID, Username: u.Username, Email: u.Email})
	}
	return listing, nil
}
