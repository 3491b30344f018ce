package project_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/AlgoRMind/algomind-be/internal/contribution"
	"github.com/AlgoRMind/algomind-be/internal/metrics"
	"github.com/AlgoRMind/algomind-be/internal/project"
	"github.com/AlgoRMind/algomind-be/testing/testdb"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64Ptr(v int64) *int64 { return &v }

func strPtr(v string) *string { return &v }

func TestProjectService_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}

	pg := testdb.SetupSharedPostgres(t)
	defer pg.Cleanup(t)

	m := metrics.NewMock()
	contributions := contribution.NewRepository(pg.DB, m)
	svc := project.NewService(
		project.NewRepository(pg.DB, m),
		contributions,
		project.NewTxManager(pg.DB, m),
		nil,
		m,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
	ctx := context.Background()

	create := func(t *testing.T, total int64) *project.Project {
		t.Helper()
		p, err := svc.CreateProject(ctx, project.Fields{
			UserID:         int64Ptr(1),
			Name:           strPtr("Solar Sail"),
			Description:    strPtr("Y"),
			FundRaiseTotal: int64Ptr(total),
		})
		require.NoError(t, err)
		return p
	}

	t.Run("CreateInsertsProjectAndTrack", func(t *testing.T) {
		pg.Reset(t)

		p := create(t, 100)
		assert.NotZero(t, p.ID)
		assert.NotEmpty(t, p.ProjectHash)

		tracks, err := pg.DB.NewSelect().Model((*project.Track)(nil)).Where("project_id = ?", p.ID).Count(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, tracks)
	})

	t.Run("CeilingScenario", func(t *testing.T) {
		pg.Reset(t)
		p := create(t, 100)

		funded, err := svc.AddFunding(ctx, p.ID, 90, int64Ptr(4))
		require.NoError(t, err)
		assert.Equal(t, int64(90), funded.CurrentFund)
		assert.Equal(t, int64(1), funded.FundRaiseCount)

		_, err = svc.AddFunding(ctx, p.ID, 20, int64Ptr(4))
		assert.ErrorIs(t, err, project.ErrInvalidAmount)

		stored, err := svc.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(90), stored.CurrentFund)
		assert.Equal(t, int64(1), stored.FundRaiseCount)

		count, err := contributions.CountByProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("ConcurrentFundingKeepsInvariant", func(t *testing.T) {
		pg.Reset(t)
		p := create(t, 100)

		var wg sync.WaitGroup
		for i := 0; i < 25; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, _ = svc.AddFunding(ctx, p.ID, 7, nil)
			}()
		}
		wg.Wait()

		stored, err := svc.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(98), stored.CurrentFund)
		assert.LessOrEqual(t, stored.CurrentFund, stored.FundRaiseTotal)

		count, err := contributions.CountByProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(count), stored.FundRaiseCount)
		assert.Equal(t, 14, count)
	})

	t.Run("MergeUpdate", func(t *testing.T) {
		pg.Reset(t)
		p := create(t, 100)

		updated, err := svc.UpdateProject(ctx, p.ID, project.Fields{Name: strPtr("X")})
		require.NoError(t, err)
		assert.Equal(t, "X", updated.Name)
		require.NotNil(t, updated.Description)
		assert.Equal(t, "Y", *updated.Description)

		stored, err := svc.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, "X", stored.Name)
		require.NotNil(t, stored.Description)
		assert.Equal(t, "Y", *stored.Description)
		assert.Equal(t, int64(100), stored.FundRaiseTotal)
	})

	t.Run("SoftDelete", func(t *testing.T) {
		pg.Reset(t)
		p := create(t, 100)

		require.NoError(t, svc.DeleteProject(ctx, p.ID))

		_, err := svc.GetProject(ctx, p.ID)
		assert.ErrorIs(t, err, project.ErrProjectNotFound)

		err = svc.DeleteProject(ctx, p.ID)
		assert.ErrorIs(t, err, project.ErrProjectNotFound)

		_, err = svc.AddFunding(ctx, p.ID, 1, nil)
		assert.ErrorIs(t, err, project.ErrProjectNotFound)

		var row project.Project
		err = pg.DB.NewSelect().Model(&row).WhereAllWithDeleted().Where("id = ?", p.ID).Scan(ctx)
		require.NoError(t, err)
		assert.False(t, row.DeletedAt.IsZero())
		assert.WithinDuration(t, time.Now(), row.DeletedAt, time.Minute)
	})

	t.Run("ListContributionsNewestFirst", func(t *testing.T) {
		pg.Reset(t)
		p := create(t, 100)

		_, err := svc.AddFunding(ctx, p.ID, 10, nil)
		require.NoError(t, err)
		_, err = svc.AddFunding(ctx, p.ID, 30, int64Ptr(2))
		require.NoError(t, err)

		rows, err := svc.ListContributions(ctx, p.ID)
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, int64(30), rows[0].Amount)
		assert.Nil(t, rows[1].UserID)
	})
	t.Run("CreateRollsBackWhenTrackInsertFails", func(t *testing.T) {
		pg.Reset(t)
		_, err := pg.DB.ExecContext(ctx, `ALTER TABLE project_tracks ADD CONSTRAINT track_user_check CHECK (user_id <> 99)`)
		require.NoError(t, err)
		defer pg.DB.ExecContext(ctx, `ALTER TABLE project_tracks DROP CONSTRAINT track_user_check`)

		_, err = svc.CreateProject(ctx, project.Fields{UserID: int64Ptr(99), Name: strPtr("Orphan")})
		require.Error(t, err)

		count, err := pg.DB.NewSelect().Model((*project.Project)(nil)).WhereAllWithDeleted().Count(ctx)
		require.NoError(t, err)
		assert.Zero(t, count)
	})

	t.Run("AddFundingRollsBackWhenContributionInsertFails", func(t *testing.T) {
		pg.Reset(t)
		p := create(t, 100)
		_, err := svc.AddFunding(ctx, p.ID, 5, nil)
		require.NoError(t, err)

		_, err = pg.DB.ExecContext(ctx, `ALTER TABLE contributions ADD CONSTRAINT contribution_amount_check CHECK (amount <> 13)`)
		require.NoError(t, err)
		defer pg.DB.ExecContext(ctx, `ALTER TABLE contributions DROP CONSTRAINT contribution_amount_check`)

		_, err = svc.AddFunding(ctx, p.ID, 13, nil)
		require.Error(t, err)

		stored, err := svc.GetProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(5), stored.CurrentFund)
		assert.Equal(t, int64(1), stored.FundRaiseCount)

		rows, err := contributions.CountByProject(ctx, p.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, rows)
	})
}
