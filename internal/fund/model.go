package fund

import (
	"time"

	"github.com/AlgoRMind/algomind-be/internal/httputil"

	"github.com/uptrace/bun"
)

type Fund struct {
	bun.BaseModel `bun:"table:funds,alias:f"`

	ID          int64     `bun:"id,pk,autoincrement" json:"id"`
	NameFund    string    `bun:"name_fund,notnull" json:"name_fund"`
	UserID      int64     `bun:"user_id,notnull" json:"user_id"`
	Members     []int64   `bun:"members,array" json:"members"`
	Description *string   `bun:"description" json:"description"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt   time.Time `bun:"deleted_at,soft_delete,nullzero" json:"-"`
}

// Summary is the fund shape returned by the fund listing and sign-in.
type Summary struct {
	ID          int64   `json:"id"`
	NameFund    string  `json:"name_fund"`
	Members     []int64 `json:"members"`
	Description *string `json:"description"`
	CreatedAt   string  `json:"created_at"`
}

func (f *Fund) Summary() Summary {
	members := f.Members
	if members == nil {
		members = []int64{}
	}
	return Summary{
		ID:          f.ID,
		NameFund:    f.NameFund,
		Members:     members,
		Description: f.Description,
		CreatedAt:   f.CreatedAt.Format(httputil.DateTimeLayout),
	}
}

type CreateRequest struct {
	NameFund    string  `json:"name_fund" validate:"required"`
	UserID      int64   `json:"user_id" validate:"required,gt=0"`
	Members     []int64 `json:"members" validate:"dive,gt=0"`
	Description *string `json:"description"`
}

// UpdateRequest replaces every mutable field; user_id is accepted and ignored.
type UpdateRequest struct {
	NameFund    string  `json:"name_fund" validate:"required"`
	UserID      int64   `json:"user_id"`
	Members     []int64 `json:"members" validate:"dive,gt=0"`
	Description *string `json:"description"`
}

type CreateResponse struct {
	FundID int64 `json:"fund_id"`
}
