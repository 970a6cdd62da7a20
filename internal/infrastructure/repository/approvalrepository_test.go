package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/permitgate/internal/domain/approval"
	"github.com/orris-inc/permitgate/internal/infrastructure/database/dbtest"
)

func TestApprovalRepository_ResolveOnce(t *testing.T) {
	repo := NewApprovalRepository(dbtest.New(t))
	ctx := context.Background()

	rec, err := approval.NewRecord(1, approval.LevelPICReview, 20, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Create(ctx, rec))

	stale, err := repo.GetByPermitAndLevel(ctx, 1, approval.LevelPICReview)
	require.NoError(t, err)
	require.NotNil(t, stale)

	require.NoError(t, rec.Resolve(true, 20, "ok", testNow.Add(time.Minute)))
	ok, err := repo.Resolve(ctx, rec)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, stale.Resolve(false, 20, "no", testNow.Add(2*time.Minute)))
	ok, err = repo.Resolve(ctx, stale)
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := repo.GetByPermitAndLevel(ctx, 1, approval.LevelPICReview)
	require.NoError(t, err)
	assert.Equal(t, approval.StatusApproved, stored.Status())
	assert.Equal(t, "ok", stored.Comments())
}

func TestApprovalRepository_OneRecordPerLevel(t *testing.T) {
	repo := NewApprovalRepository(dbtest.New(t))
	ctx := context.Background()

	first, _ := approval.NewRecord(1, approval.LevelManagerApproval, 30, testNow)
	require.NoError(t, repo.Create(ctx, first))
	dup, _ := approval.NewRecord(1, approval.LevelManagerApproval, 31, testNow)
	assert.Error(t, repo.Create(ctx, dup))
}

func TestApprovalRepository_PendingQueries(t *testing.T) {
	repo := NewApprovalRepository(dbtest.New(t))
	ctx := context.Background()

	for permitID, approverID := range map[uint]uint{1: 30, 2: 30, 3: 31} {
		rec, err := approval.NewRecord(permitID, approval.LevelManagerApproval, approverID, testNow)
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, rec))
	}
	pic, _ := approval.NewRecord(1, approval.LevelPICReview, 30, testNow)
	require.NoError(t, repo.Create(ctx, pic))

	counts, err := repo.CountPendingByApprover(ctx, approval.LevelManagerApproval, []uint{30, 31, 32})
	require.NoError(t, err)
	assert.Equal(t, map[uint]int64{30: 2, 31: 1, 32: 0}, counts)

	pending, err := repo.ListPendingByApprover(ctx, 30)
	require.NoError(t, err)
	assert.Len(t, pending, 3)

	byPermit, err := repo.ListByPermit(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, byPermit, 2)
}
