package contribution

import (
	"time"

	"github.com/uptrace/bun"
)

// Contribution is one append-only funding increment toward a project.
// UserID is nil for anonymous contributions.
type Contribution struct {
	bun.BaseModel `bun:"table:contributions,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement" json:"id"`
	ProjectID int64     `bun:"project_id,notnull" json:"project_id"`
	UserID    *int64    `bun:"user_id" json:"user_id"`
	Amount    int64     `bun:"amount,notnull" json:"amount"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Event is published after a contribution commits.
type Event struct {
	ContributionID int64     `json:"contribution_id"`
	ProjectID      int64     `json:"project_id"`
	UserID         *int64    `json:"user_id"`
	Amount         int64     `json:"amount"`
	CurrentFund    int64     `json:"current_fund"`
	FundRaiseTotal int64     `json:"fund_raise_total"`
	FundRaiseCount int64     `json:"fund_raise_count"`
	CreatedAt      time.Time `json:"created_at"`
}
