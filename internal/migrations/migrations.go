package migrations

import (
	"context"

	"github.com/AlgoRMind/algomind-be/internal/contribution"
	"github.com/AlgoRMind/algomind-be/internal/db"
	"github.com/AlgoRMind/algomind-be/internal/fund"
	"github.com/AlgoRMind/algomind-be/internal/project"
	"github.com/AlgoRMind/algomind-be/internal/user"

	"github.com/uptrace/bun"
)

// Tables lists every table in dependency-free truncation order.
var Tables = []string{"contributions", "project_tracks", "projects", "funds", "users"}

func Models() []interface{} {
	return []interface{}{
		(*user.User)(nil),
		(*fund.Fund)(nil),
		(*project.Project)(nil),
		(*project.Track)(nil),
		(*contribution.Contribution)(nil),
	}
}

var statements = []string{
	`CREATE INDEX IF NOT EXISTS idx_funds_user_id ON funds (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_projects_user_id ON projects (user_id)`,
	`CREATE INDEX IF NOT EXISTS idx_project_tracks_project_id ON project_tracks (project_id)`,
	`CREATE INDEX IF NOT EXISTS idx_contributions_project_id ON contributions (project_id, created_at DESC)`,
}

// Run creates the schema if it does not exist yet.
func Run(ctx context.Context, bunDB *bun.DB) error {
	return db.RunMigrations(ctx, bunDB, Models(), statements...)
}
