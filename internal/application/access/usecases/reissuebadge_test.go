package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/permitgate/internal/application/testutil"
	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/domain/notification"
	infraDirectory "github.com/orris-inc/permitgate/internal/infrastructure/directory"
	"github.com/orris-inc/permitgate/internal/shared/errors"
)

func newReissue(t *testing.T, h *harness) *ReissueBadgeUseCase {
	t.Helper()
	dir, err := infraDirectory.NewStaticDirectory(
		&directory.Person{ID: visitorID, Name: "Vera", Roles: []directory.Role{directory.RoleVisitor}},
		&directory.Person{ID: picID, Name: "Sari", Roles: []directory.Role{directory.RolePIC}},
	)
	require.NoError(t, err)
	return NewReissueBadgeUseCase(h.registry, dir, &testutil.SyncPublisher{Notifier: h.notifier}, testutil.NewMockLogger())
}

func TestReissueBadge(t *testing.T) {
	h := newHarness(t, hardened())
	ctx := context.Background()
	p := h.approved(t, 30*time.Minute)
	in, err := h.checkIn.Execute(ctx, CheckInCommand{Identifier: p.AccessToken(), Code: testCode})
	require.NoError(t, err)
	h.notifier.Reset()

	uc := newReissue(t, h)
	replacement, err := uc.Execute(ctx, ReissueBadgeCommand{BadgeID: in.Badge.ID, ActorID: 5, Reason: "card damaged"})
	require.NoError(t, err)
	assert.NotEqual(t, in.Badge.ID, replacement.ID)
	assert.NotEqual(t, in.Badge.RFIDTag, replacement.RFIDTag)
	assert.Equal(t, p.ScheduledEnd(), replacement.ExpiresAt)

	old, err := h.badges.GetByID(ctx, in.Badge.ID)
	require.NoError(t, err)
	assert.False(t, old.IsActive())
	assert.Equal(t, "card damaged", old.DeactivationReason())

	assert.Equal(t, []notification.Kind{notification.KindBadgeReissued}, h.notifier.Kinds(picID))
	assert.Equal(t, []notification.Kind{notification.KindBadgeReissued}, h.notifier.Kinds(visitorID))

	res, err := h.door.Execute(ctx, DoorAccessCommand{RFIDTag: in.Badge.RFIDTag, Location: "Hall A", Direction: "ENTRY"})
	require.NoError(t, err)
	assert.False(t, res.Granted)
	res, err = h.door.Execute(ctx, DoorAccessCommand{RFIDTag: replacement.RFIDTag, Location: "Hall A", Direction: "ENTRY"})
	require.NoError(t, err)
	assert.True(t, res.Granted)
}

func TestReissueBadge_Guards(t *testing.T) {
	h := newHarness(t, hardened())
	ctx := context.Background()
	uc := newReissue(t, h)

	_, err := uc.Execute(ctx, ReissueBadgeCommand{BadgeID: 1, Reason: "  "})
	assert.True(t, errors.IsValidationError(err))

	_, err = uc.Execute(ctx, ReissueBadgeCommand{BadgeID: 404, Reason: "lost"})
	assert.True(t, errors.IsNotFoundError(err))
	assert.Empty(t, h.notifier.Messages())
}
