package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/infrastructure/database/dbtest"
	"github.com/orris-inc/permitgate/internal/shared/id"
)

func appendEvent(t *testing.T, repo *AccessEventRepository, permitID *uint, typ accesslog.EventType, outcome accesslog.Outcome, location string, at time.Time) {
	t.Helper()
	e, err := accesslog.NewEvent(id.NewEventID(at), permitID, nil, typ, location, outcome, at, "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Append(context.Background(), e))
}

func TestAccessEventRepository_Queries(t *testing.T) {
	repo := NewAccessEventRepository(dbtest.New(t))
	ctx := context.Background()

	p1, p2 := uint(1), uint(2)
	appendEvent(t, repo, &p1, accesslog.EventCheckIn, accesslog.OutcomeSuccess, "DC1", testNow)
	appendEvent(t, repo, &p1, accesslog.EventEntry, accesslog.OutcomeSuccess, "DC1-HALL-A", testNow.Add(time.Minute))
	appendEvent(t, repo, &p2, accesslog.EventDenied, accesslog.OutcomeFailed, "DC1", testNow.Add(2*time.Minute))
	appendEvent(t, repo, nil, accesslog.EventDenied, accesslog.OutcomeFailed, "DC2", testNow.Add(3*time.Minute))
	appendEvent(t, repo, &p1, accesslog.EventCheckOut, accesslog.OutcomeSuccess, "DC1", testNow.Add(4*time.Hour))

	t.Run("by permit newest first", func(t *testing.T) {
		events, total, err := repo.List(ctx, accesslog.EventFilter{PermitID: &p1})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		require.Len(t, events, 3)
		assert.Equal(t, accesslog.EventCheckOut, events[0].Type())
		assert.Equal(t, accesslog.EventCheckIn, events[2].Type())
	})

	t.Run("by location", func(t *testing.T) {
		_, total, err := repo.List(ctx, accesslog.EventFilter{Location: "DC1"})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
	})

	t.Run("by type and outcome", func(t *testing.T) {
		typ, outcome := accesslog.EventDenied, accesslog.OutcomeFailed
		events, total, err := repo.List(ctx, accesslog.EventFilter{Type: &typ, Outcome: &outcome})
		require.NoError(t, err)
		assert.EqualValues(t, 2, total)
		assert.Nil(t, events[0].PermitID())
	})

	t.Run("by time range", func(t *testing.T) {
		_, total, err := repo.List(ctx, accesslog.EventFilter{From: testNow.Add(time.Minute), To: testNow.Add(3 * time.Minute)})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
	})

	t.Run("paginated", func(t *testing.T) {
		events, total, err := repo.List(ctx, accesslog.EventFilter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		assert.Len(t, events, 2)
	})

	t.Run("counts", func(t *testing.T) {
		success := accesslog.OutcomeSuccess
		n, err := repo.CountByTypeAndOutcome(ctx, accesslog.EventCheckIn, &success, testNow.Add(-time.Hour), testNow.Add(time.Hour))
		require.NoError(t, err)
		assert.EqualValues(t, 1, n)

		n, err = repo.CountByTypeAndOutcome(ctx, accesslog.EventDenied, nil, time.Time{}, time.Time{})
		require.NoError(t, err)
		assert.EqualValues(t, 2, n)
	})
}

func TestInboxRepository(t *testing.T) {
	repo := NewInboxRepository(dbtest.New(t))
	ctx := context.Background()

	for _, subject := range []string{"Permit submitted", "Permit approved"} {
		item, err := notification.NewInboxItem(notification.Message{
			Kind:      notification.KindPermitApproved,
			Recipient: notification.Recipient{ID: 10},
			Subject:   subject,
			Body:      "body",
			PermitID:  1,
		}, testNow)
		require.NoError(t, err)
		require.NoError(t, repo.Append(ctx, item))
		require.NotZero(t, item.ID())
	}

	items, total, err := repo.ListByRecipient(ctx, 10, true, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Equal(t, "Permit approved", items[0].Subject())

	ok, err := repo.MarkRead(ctx, items[0].ID(), 10, testNow)
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.MarkRead(ctx, items[0].ID(), 10, testNow)
	require.NoError(t, err)
	assert.True(t, ok, "already read")
	ok, err = repo.MarkRead(ctx, items[0].ID(), 99, testNow)
	require.NoError(t, err)
	assert.False(t, ok, "someone else's item")

	_, total, err = repo.ListByRecipient(ctx, 10, true, 1, 20)
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}
