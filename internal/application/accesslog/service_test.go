package accesslog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/permitgate/internal/application/testutil"
	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/infrastructure/database/dbtest"
	"github.com/orris-inc/permitgate/internal/infrastructure/repository"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/db"
	"github.com/orris-inc/permitgate/internal/shared/errors"
)

// 08:00 in Jakarta on 2026-03-02.
var testNow = time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC)

type counter struct {
	seen map[accesslog.Outcome]int
}

func (c *counter) ObserveAccessEvent(_ accesslog.EventType, outcome accesslog.Outcome) {
	c.seen[outcome]++
}

type fixture struct {
	recorder *Recorder
	service  *Service
	permits  *repository.PermitRepository
	events   *repository.AccessEventRepository
	txMgr    *db.TransactionManager
	clock    *biztime.FixedClock
	observed *counter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gdb := dbtest.New(t)
	events := repository.NewAccessEventRepository(gdb)
	f := &fixture{
		permits:  repository.NewPermitRepository(gdb),
		events:   events,
		txMgr:    db.NewTransactionManager(gdb),
		clock:    biztime.NewFixedClock(testNow),
		observed: &counter{seen: map[accesslog.Outcome]int{}},
	}
	log := testutil.NewMockLogger()
	f.recorder = NewRecorder(events, f.clock, f.observed, log)
	f.service = NewService(events, f.permits, log)
	return f
}

func (f *fixture) record(t *testing.T, permitID uint, eventType accesslog.EventType, outcome accesslog.Outcome, location string) {
	t.Helper()
	_, err := f.recorder.Record(context.Background(), Entry{
		PermitID: Ref(permitID),
		Type:     eventType,
		Location: location,
		Outcome:  outcome,
	})
	require.NoError(t, err)
}

func TestRecorder(t *testing.T) {
	f := newFixture(t)

	e, err := f.recorder.Record(context.Background(), Entry{Type: accesslog.EventDenied, Location: "Lobby", Outcome: accesslog.OutcomeFailed, Remarks: "unknown token"})
	require.NoError(t, err)
	assert.Len(t, e.ID(), 26)
	assert.Nil(t, e.PermitID())
	assert.Equal(t, testNow, e.OccurredAt())
	assert.Equal(t, 1, f.observed.seen[accesslog.OutcomeFailed])

	_, err = f.recorder.Record(context.Background(), Entry{Type: "TELEPORT", Location: "Lobby", Outcome: accesslog.OutcomeFailed})
	assert.Error(t, err)
	assert.Equal(t, 1, f.observed.seen[accesslog.OutcomeFailed], "rejected events are not observed")
}

func TestRecorder_ObservesOnlyCommittedEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	entry := Entry{Type: accesslog.EventCheckIn, Location: "Lobby", Outcome: accesslog.OutcomeSuccess}

	err := f.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if _, err := f.recorder.Record(txCtx, entry); err != nil {
			return err
		}
		assert.Zero(t, f.observed.seen[accesslog.OutcomeSuccess], "not observed before commit")
		return errors.NewAlreadyProcessedError("permit claimed by a concurrent check-in")
	})
	require.Error(t, err)
	assert.Zero(t, f.observed.seen[accesslog.OutcomeSuccess], "rolled back")

	_, total, err := f.events.List(ctx, accesslog.EventFilter{PageSize: 10})
	require.NoError(t, err)
	assert.Zero(t, total)

	err = f.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		_, err := f.recorder.Record(txCtx, entry)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, 1, f.observed.seen[accesslog.OutcomeSuccess])
}

func TestService_ListEvents(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.record(t, 1, accesslog.EventCheckIn, accesslog.OutcomeSuccess, "Lobby")
	f.clock.Advance(time.Minute)
	f.record(t, 1, accesslog.EventEntry, accesslog.OutcomeSuccess, "Hall A")
	f.clock.Advance(time.Minute)
	f.record(t, 2, accesslog.EventDenied, accesslog.OutcomeUnauthorized, "Hall A")

	events, total, err := f.service.ListEvents(ctx, accesslog.EventFilter{Location: "Hall A"})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, events, 2)
	assert.Equal(t, accesslog.EventDenied, events[0].Type())

	denied := accesslog.EventDenied
	unauthorized := accesslog.OutcomeUnauthorized
	_, total, err = f.service.ListEvents(ctx, accesslog.EventFilter{Type: &denied, Outcome: &unauthorized})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	_, total, err = f.service.ListEvents(ctx, accesslog.EventFilter{From: testNow.Add(30 * time.Second), To: testNow.Add(90 * time.Second)})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)

	trail, err := f.service.ListByPermit(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, trail, 2)

	bad := accesslog.EventType("NOPE")
	_, _, err = f.service.ListEvents(ctx, accesslog.EventFilter{Type: &bad})
	assert.True(t, errors.IsValidationError(err))

	_, _, err = f.service.ListEvents(ctx, accesslog.EventFilter{From: testNow, To: testNow.Add(-time.Hour)})
	assert.True(t, errors.IsValidationError(err))
}

func TestService_DailySummary(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.record(t, 1, accesslog.EventCheckIn, accesslog.OutcomeSuccess, "Lobby")
	f.record(t, 2, accesslog.EventCheckIn, accesslog.OutcomeSuccess, "Lobby")
	f.record(t, 1, accesslog.EventCheckOut, accesslog.OutcomeSuccess, "Lobby")
	f.record(t, 3, accesslog.EventDenied, accesslog.OutcomeFailed, "Lobby")
	f.record(t, 3, accesslog.EventDenied, accesslog.OutcomeUnauthorized, "Hall A")

	// 23:30 Jakarta the same day, still inside the business day
	f.clock.Set(time.Date(2026, 3, 2, 16, 30, 0, 0, time.UTC))
	f.record(t, 4, accesslog.EventCheckIn, accesslog.OutcomeSuccess, "Lobby")
	// 00:30 Jakarta the next day
	f.clock.Set(time.Date(2026, 3, 2, 17, 30, 0, 0, time.UTC))
	f.record(t, 5, accesslog.EventCheckIn, accesslog.OutcomeSuccess, "Lobby")

	summary, err := f.service.DailySummary(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.EqualValues(t, 3, summary.CheckIns)
	assert.EqualValues(t, 1, summary.CheckOuts)
	assert.EqualValues(t, 2, summary.Denied)
	assert.Zero(t, summary.OnSite)

	_, err = f.service.DailySummary(ctx, "02/03/2026")
	assert.True(t, errors.IsValidationError(err))
}

func TestService_CurrentlyCheckedIn(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i, loc := range []string{"DC1", "DC2", "DC1"} {
		p, err := permit.NewPermit("WP-20260302-ONSITE"+string(rune('A'+i)), 1, 2, "Work", vo.VisitGeneral, loc,
			testNow, testNow.Add(4*time.Hour), nil, testNow)
		require.NoError(t, err)
		require.NoError(t, f.permits.Create(ctx, p))
		require.NoError(t, p.TransitionTo(vo.StatusPendingManager, testNow, ""))
		require.NoError(t, p.AttachCredentials("123456", "PERMIT-onsite-"+loc+string(rune('A'+i)), testNow.Add(time.Minute), testNow))
		require.NoError(t, p.TransitionTo(vo.StatusApproved, testNow, ""))
		if i < 2 {
			require.NoError(t, p.TransitionTo(vo.StatusActive, testNow.Add(time.Duration(i)*time.Minute), ""))
		}
		ok, err := f.permits.ConditionalUpdate(ctx, p)
		require.NoError(t, err)
		require.True(t, ok)
	}

	all, err := f.service.CurrentlyCheckedIn(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "DC1", all[0].Location)
	assert.Equal(t, testNow, all[0].CheckedInAt)

	dc2, err := f.service.CurrentlyCheckedIn(ctx, "DC2")
	require.NoError(t, err)
	require.Len(t, dc2, 1)

	summary, err := f.service.DailySummary(ctx, "2026-03-02")
	require.NoError(t, err)
	assert.EqualValues(t, 2, summary.OnSite)
}
