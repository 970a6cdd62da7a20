package permit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/permitgate/internal/application/testutil"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/infrastructure/database/dbtest"
	"github.com/orris-inc/permitgate/internal/infrastructure/repository"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/errors"
)

var testNow = time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)

type transitions struct {
	seen [][2]vo.PermitStatus
}

func (o *transitions) ObserveTransition(from, to vo.PermitStatus) {
	o.seen = append(o.seen, [2]vo.PermitStatus{from, to})
}

func setup(t *testing.T) (*Lifecycle, *repository.PermitRepository, *transitions, *permit.Permit) {
	t.Helper()
	repo := repository.NewPermitRepository(dbtest.New(t))
	obs := &transitions{}
	l := NewLifecycle(repo, biztime.NewFixedClock(testNow), obs, testutil.NewMockLogger())

	p, err := permit.NewPermit("WP-20260302-LIFE01", 1, 2, "Survey", vo.VisitAssessment, "DC1",
		testNow.Add(time.Hour), testNow.Add(2*time.Hour), nil, testNow)
	require.NoError(t, err)
	require.NoError(t, repo.Create(context.Background(), p))
	return l, repo, obs, p
}

func TestLifecycle_Transition(t *testing.T) {
	l, repo, obs, p := setup(t)
	ctx := context.Background()

	require.NoError(t, l.Transition(ctx, p, vo.StatusPendingManager, 2, ""))
	require.NoError(t, l.Transition(ctx, p, vo.StatusCancelled, 1, "no longer needed"))

	stored, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusCancelled, stored.Status())
	assert.Equal(t, "no longer needed", stored.RejectionReason())
	assert.Equal(t, [][2]vo.PermitStatus{
		{vo.StatusPendingPIC, vo.StatusPendingManager},
		{vo.StatusPendingManager, vo.StatusCancelled},
	}, obs.seen)
}

func TestLifecycle_InvalidEdge(t *testing.T) {
	l, _, obs, p := setup(t)

	err := l.Transition(context.Background(), p, vo.StatusActive, 1, "")
	assert.Equal(t, errors.ErrorTypeInvalidState, errors.TypeOf(err))
	assert.Equal(t, vo.StatusPendingPIC, p.Status(), "permit untouched")
	assert.Empty(t, obs.seen)
}

func TestLifecycle_ApprovalNeedsCredentials(t *testing.T) {
	l, _, _, p := setup(t)
	ctx := context.Background()

	require.NoError(t, l.Transition(ctx, p, vo.StatusPendingManager, 2, ""))
	err := l.Transition(ctx, p, vo.StatusApproved, 3, "")
	assert.Equal(t, errors.ErrorTypeInvalidState, errors.TypeOf(err))
}

func TestLifecycle_LostRace(t *testing.T) {
	l, repo, obs, p := setup(t)
	ctx := context.Background()

	stale, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)

	require.NoError(t, l.Transition(ctx, p, vo.StatusPendingManager, 2, ""))

	err = l.Transition(ctx, stale, vo.StatusRejected, 2, "late")
	assert.Equal(t, errors.ErrorTypeInvalidState, errors.TypeOf(err))
	assert.Len(t, obs.seen, 1)
	assert.Equal(t, vo.StatusPendingPIC, stale.Status(), "lost write leaves the loaded state")
	assert.Empty(t, stale.RejectionReason())
	assert.Equal(t, stale.PersistedVersion(), stale.Version())

	stored, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusPendingManager, stored.Status())
}

func TestLifecycle_LostClaimIsAlreadyProcessed(t *testing.T) {
	l, repo, _, p := setup(t)
	ctx := context.Background()

	require.NoError(t, l.Transition(ctx, p, vo.StatusPendingManager, 2, ""))
	require.NoError(t, p.AttachCredentials("123456", "PERMIT-x", testNow.Add(5*time.Minute), testNow))
	require.NoError(t, l.Transition(ctx, p, vo.StatusApproved, 3, ""))

	first, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)
	second, err := repo.GetByID(ctx, p.ID())
	require.NoError(t, err)

	require.NoError(t, l.Transition(ctx, first, vo.StatusActive, 1, ""))
	err = l.Transition(ctx, second, vo.StatusActive, 1, "")
	assert.Equal(t, errors.ErrorTypeAlreadyProcessed, errors.TypeOf(err))

	assert.Equal(t, vo.StatusApproved, second.Status())
	assert.Nil(t, second.ActualCheckIn())
	assert.Nil(t, second.CodeConsumedAt())
	assert.Equal(t, "123456", second.AccessCode(), "credentials survive the lost claim")
}

func TestLifecycle_SaveRejectsStatusChanges(t *testing.T) {
	l, _, _, p := setup(t)
	require.NoError(t, p.TransitionTo(vo.StatusPendingManager, testNow, ""))

	err := l.Save(context.Background(), p)
	assert.Equal(t, errors.ErrorTypeInternal, errors.TypeOf(err))
}
