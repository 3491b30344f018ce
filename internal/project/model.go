package project

import (
	"time"

	"github.com/AlgoRMind/algomind-be/internal/httputil"

	"github.com/uptrace/bun"
)

// Project is a crowdfunding campaign. Amounts are integer minor units and
// CurrentFund never exceeds FundRaiseTotal.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID             int64      `bun:"id,pk,autoincrement"`
	UserID         int64      `bun:"user_id,notnull"`
	Name           string     `bun:"name,notnull"`
	Description    *string    `bun:"description"`
	FundID         *int64     `bun:"fund_id"`
	CurrentFund    int64      `bun:"current_fund,notnull,default:0"`
	FundRaiseTotal int64      `bun:"fund_raise_total,notnull,default:0"`
	FundRaiseCount int64      `bun:"fund_raise_count,notnull,default:0"`
	Deadline       *time.Time `bun:"deadline"`
	ProjectHash    string     `bun:"project_hash,notnull"`
	IsVerify       bool       `bun:"is_verify,notnull,default:false"`
	Status         string     `bun:"status,notnull,default:''"`
	CreatedAt      time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt      time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
	DeletedAt      time.Time  `bun:"deleted_at,soft_delete,nullzero"`
}

// Track links a project to the user that created it.
type Track struct {
	bun.BaseModel `bun:"table:project_tracks,alias:pt"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	ProjectID int64     `bun:"project_id,notnull" json:"project_id"`
	UserID    int64     `bun:"user_id,notnull" json:"user_id"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Record is the JSON shape of a project.
type Record struct {
	ID             int64      `json:"id"`
	UserID         int64      `json:"user_id"`
	Name           string     `json:"name"`
	Description    *string    `json:"description"`
	FundID         *int64     `json:"fund_id"`
	CurrentFund    int64      `json:"current_fund"`
	FundRaiseTotal int64      `json:"fund_raise_total"`
	FundRaiseCount int64      `json:"fund_raise_count"`
	Deadline       *time.Time `json:"deadline"`
	ProjectHash    string     `json:"project_hash"`
	IsVerify       bool       `json:"is_verify"`
	Status         string     `json:"status"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at"`
}

func (p *Project) Record() Record {
	rec := Record{
		ID:             p.ID,
		UserID:         p.UserID,
		Name:           p.Name,
		Description:    p.Description,
		FundID:         p.FundID,
		CurrentFund:    p.CurrentFund,
		FundRaiseTotal: p.FundRaiseTotal,
		FundRaiseCount: p.FundRaiseCount,
		Deadline:       p.Deadline,
		ProjectHash:    p.ProjectHash,
		IsVerify:       p.IsVerify,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if !p.DeletedAt.IsZero() {
		deleted := p.DeletedAt
		rec.DeletedAt = &deleted
	}
	return rec
}

func Records(projects []Project) []Record {
	records := make([]Record, 0, len(projects))
	for i := range projects {
		records = append(records, projects[i].Record())
	}
	return records
}

// Fields carries create and update input. On update a nil field keeps the
// stored value. fund_raise_count is not accepted.
type Fields struct {
	UserID         *int64     `json:"user_id" validate:"omitempty,gt=0"`
	Name           *string    `json:"name" validate:"omitempty,max=255"`
	Description    *string    `json:"description"`
	FundID         *int64     `json:"fund_id" validate:"omitempty,gt=0"`
	CurrentFund    *int64     `json:"current_fund"`
	FundRaiseTotal *int64     `json:"fund_raise_total"`
	Deadline       *time.Time `json:"deadline"`
	ProjectHash    *string    `json:"project_hash" validate:"omitempty,max=255"`
	IsVerify       *bool      `json:"is_verify"`
	Status         *string    `json:"status" validate:"omitempty,max=64"`
}

func (f Fields) applyTo(p *Project) {
	if f.UserID != nil {
		p.UserID = *f.UserID
	}
	if f.Name != nil {
		p.Name = *f.Name
	}
	if f.Description != nil {
		p.Description = f.Description
	}
	if f.FundID != nil {
		p.FundID = f.FundID
	}
	if f.CurrentFund != nil {
		p.CurrentFund = *f.CurrentFund
	}
	if f.FundRaiseTotal != nil {
		p.FundRaiseTotal = *f.FundRaiseTotal
	}
	if f.Deadline != nil {
		p.Deadline = f.Deadline
	}
	if f.ProjectHash != nil {
		p.ProjectHash = *f.ProjectHash
	}
	if f.IsVerify != nil {
		p.IsVerify = *f.IsVerify
	}
	if f.Status != nil {
		p.Status = *f.Status
	}
}

// AddFundRequest is the body of a funding increment. UserID may also come
// from the user_id query parameter.
type AddFundRequest struct {
	CurrentFund *int64 `json:"current_fund" validate:"required"`
	UserID      *int64 `json:"user_id" validate:"omitempty,gt=0"`
}

// Summary is the project shape embedded in a sign-in profile.
type Summary struct {
	ID          int64   `json:"id"`
	UserID      int64   `json:"user_id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	FundID      *int64  `json:"fund_id"`
	CurrentFund int64   `json:"current_fund"`
	Deadline    *string `json:"deadline"`
	CreatedAt   string  `json:"created_at"`
}

func (p *Project) Summary() Summary {
	s := Summary{
		ID:          p.ID,
		UserID:      p.UserID,
		Name:        p.Name,
		Description: p.Description,
		FundID:      p.FundID,
		CurrentFund: p.CurrentFund,
		CreatedAt:   p.CreatedAt.Format(httputil.DateTimeLayout),
	}
	if p.Deadline != nil {
		deadline := p.Deadline.Format(httputil.DateTimeLayout)
		s.Deadline = &deadline
	}
	return s
}
