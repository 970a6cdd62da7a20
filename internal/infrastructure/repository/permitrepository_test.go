package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/infrastructure/database/dbtest"
	"github.com/orris-inc/permitgate/internal/shared/db"
)

var testNow = time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)

func newTestPermit(t *testing.T, number string, visitorID, picID uint) *permit.Permit {
	t.Helper()
	p, err := permit.NewPermit(
		number, visitorID, picID,
		"Quarterly UPS inspection",
		vo.VisitPreventiveMaintenance,
		"DC1",
		testNow.Add(2*time.Hour), testNow.Add(5*time.Hour),
		[]string{"multimeter", "laptop"},
		testNow,
	)
	require.NoError(t, err)
	return p
}

// approvedPermit stores a permit and walks it to APPROVED with credentials.
func approvedPermit(t *testing.T, repo *PermitRepository, number, token string) *permit.Permit {
	t.Helper()
	ctx := context.Background()
	p := newTestPermit(t, number, 10, 20)
	require.NoError(t, repo.Create(ctx, p))
	require.NoError(t, p.TransitionTo(vo.StatusPendingManager, testNow, ""))
	require.NoError(t, p.AttachCredentials("123456", token, testNow.Add(5*time.Minute), testNow))
	require.NoError(t, p.TransitionTo(vo.StatusApproved, testNow, ""))
	ok, err := repo.ConditionalUpdate(ctx, p)
	require.NoError(t, err)
	require.True(t, ok)
	return p
}

func TestPermitRepository_CreateAndGet(t *testing.T) {
	repo := NewPermitRepository(dbtest.New(t))
	ctx := context.Background()

	p := newTestPermit(t, "WP-20260302-AAAAAA", 10, 20)
	require.NoError(t, repo.Create(ctx, p))
	require.NotZero(t, p.ID())

	found, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, p.Number(), found.Number())
	assert.Equal(t, vo.StatusPendingPIC, found.Status())
	assert.Equal(t, []string{"multimeter", "laptop"}, found.Equipment())
	assert.True(t, found.ScheduledStart().Equal(p.ScheduledStart()))
	assert.Equal(t, vo.StatusPendingPIC, found.PersistedStatus())

	byNumber, err := repo.GetByNumber(ctx, "WP-20260302-AAAAAA")
	require.NoError(t, err)
	assert.Equal(t, p.ID(), byNumber.ID())

	missing, err := repo.GetByID(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	noToken, err := repo.GetByAccessToken(ctx, "")
	require.NoError(t, err)
	assert.Nil(t, noToken)
}

func TestPermitRepository_DuplicateNumberRejected(t *testing.T) {
	repo := NewPermitRepository(dbtest.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestPermit(t, "WP-20260302-DUPDUP", 10, 20)))
	err := repo.Create(ctx, newTestPermit(t, "WP-20260302-DUPDUP", 11, 20))
	assert.Error(t, err)
}

func TestPermitRepository_ConditionalUpdate(t *testing.T) {
	repo := NewPermitRepository(dbtest.New(t))
	ctx := context.Background()

	p := approvedPermit(t, repo, "WP-20260302-CASCAS", "PERMIT-cas")

	byToken, err := repo.GetByAccessToken(ctx, "PERMIT-cas")
	require.NoError(t, err)
	require.NotNil(t, byToken)
	assert.Equal(t, p.ID(), byToken.ID())
	assert.Equal(t, "123456", byToken.AccessCode())

	// two readers load the same approved permit
	first, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)

	require.NoError(t, first.TransitionTo(vo.StatusActive, testNow.Add(time.Hour), ""))
	require.NoError(t, second.TransitionTo(vo.StatusActive, testNow.Add(time.Hour), ""))

	ok, err := repo.ConditionalUpdate(ctx, first)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.ConditionalUpdate(ctx, second)
	require.NoError(t, err)
	assert.False(t, ok, "stale writer must lose")

	stored, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, stored.Status())
	require.NotNil(t, stored.ActualCheckIn())
	require.NotNil(t, stored.CodeConsumedAt())
	assert.Equal(t, first.Version(), stored.Version())
}

func TestPermitRepository_CompletionClearsTokenColumn(t *testing.T) {
	repo := NewPermitRepository(dbtest.New(t))
	ctx := context.Background()

	p := approvedPermit(t, repo, "WP-20260302-DONE01", "PERMIT-done")
	require.NoError(t, p.TransitionTo(vo.StatusActive, testNow.Add(time.Hour), ""))
	ok, err := repo.ConditionalUpdate(ctx, p)
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, p.TransitionTo(vo.StatusCompleted, testNow.Add(3*time.Hour), ""))
	ok, err = repo.ConditionalUpdate(ctx, p)
	require.NoError(t, err)
	require.True(t, ok)

	byToken, err := repo.GetByAccessToken(ctx, "PERMIT-done")
	require.NoError(t, err)
	assert.Nil(t, byToken)

	stored, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Empty(t, stored.AccessCode())
	assert.NotNil(t, stored.ActualCheckOut())
}

func TestPermitRepository_ConditionalUpdateJoinsTransaction(t *testing.T) {
	database := dbtest.New(t)
	repo := NewPermitRepository(database)
	tm := db.NewTransactionManager(database)
	ctx := context.Background()

	p := approvedPermit(t, repo, "WP-20260302-TXTX01", "PERMIT-tx")

	err := tm.RunInTransaction(ctx, func(txCtx context.Context) error {
		require.NoError(t, p.TransitionTo(vo.StatusActive, testNow.Add(time.Hour), ""))
		ok, err := repo.ConditionalUpdate(txCtx, p)
		require.NoError(t, err)
		require.True(t, ok)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	stored, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusApproved, stored.Status(), "rollback discards the transition")
}

func TestPermitRepository_List(t *testing.T) {
	repo := NewPermitRepository(dbtest.New(t))
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestPermit(t, "WP-1", 10, 20)))
	require.NoError(t, repo.Create(ctx, newTestPermit(t, "WP-2", 10, 21)))
	require.NoError(t, repo.Create(ctx, newTestPermit(t, "WP-3", 11, 20)))
	approvedPermit(t, repo, "WP-4", "PERMIT-4")

	visitor := uint(10)
	list, total, err := repo.List(ctx, permit.PermitFilter{VisitorID: &visitor, Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	assert.Len(t, list, 2)

	pic := uint(20)
	pending := vo.StatusPendingPIC
	list, total, err = repo.List(ctx, permit.PermitFilter{PicID: &pic, Status: &pending})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, list, 2)

	count, err := repo.CountByStatus(ctx, vo.StatusApproved)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
