package usecases

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appAccesslog "github.com/orris-inc/permitgate/internal/application/accesslog"
	"github.com/orris-inc/permitgate/internal/application/approval/assignment"
	approvalUsecases "github.com/orris-inc/permitgate/internal/application/approval/usecases"
	appBadge "github.com/orris-inc/permitgate/internal/application/badge"
	"github.com/orris-inc/permitgate/internal/application/credential"
	appPermit "github.com/orris-inc/permitgate/internal/application/permit"
	"github.com/orris-inc/permitgate/internal/application/testutil"
	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/domain/approval"
	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/infrastructure/database/dbtest"
	infraDirectory "github.com/orris-inc/permitgate/internal/infrastructure/directory"
	"github.com/orris-inc/permitgate/internal/infrastructure/repository"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/config"
	"github.com/orris-inc/permitgate/internal/shared/db"
)

const managerID uint = 30

// system wires every use case against one database, the way the server does.
type system struct {
	permits   *repository.PermitRepository
	approvals *repository.ApprovalRepository
	badges    *repository.BadgeRepository
	events    *repository.AccessEventRepository
	clock     *biztime.FixedClock

	submit   *approvalUsecases.SubmitPermitUseCase
	pic      *approvalUsecases.PicReviewUseCase
	manager  *approvalUsecases.ManagerApprovalUseCase
	checkIn  *CheckInUseCase
	checkOut *CheckOutUseCase
	door     *DoorAccessUseCase
}

func newSystem(t *testing.T) *system {
	t.Helper()
	dir, err := infraDirectory.NewStaticDirectory(
		&directory.Person{ID: visitorID, Name: "Vera", Roles: []directory.Role{directory.RoleVisitor}},
		&directory.Person{ID: picID, Name: "Sari", Roles: []directory.Role{directory.RolePIC}},
		&directory.Person{ID: managerID, Name: "Maya", Roles: []directory.Role{directory.RoleManager}},
	)
	require.NoError(t, err)

	gdb := dbtest.New(t)
	s := &system{
		permits:   repository.NewPermitRepository(gdb),
		approvals: repository.NewApprovalRepository(gdb),
		badges:    repository.NewBadgeRepository(gdb),
		events:    repository.NewAccessEventRepository(gdb),
		clock:     biztime.NewFixedClock(testNow),
	}
	log := testutil.NewMockLogger()
	txMgr := db.NewTransactionManager(gdb)
	pub := &testutil.SyncPublisher{Notifier: testutil.NewRecordingNotifier()}
	credCfg := config.CredentialConfig{CodeLength: 6, CodeTTL: 5 * time.Minute}

	lifecycle := appPermit.NewLifecycle(s.permits, s.clock, nil, log)
	issuer := credential.NewIssuer(credCfg, s.clock)
	recorder := appAccesslog.NewRecorder(s.events, s.clock, nil, log)
	registry := appBadge.NewRegistry(s.badges, s.permits, txMgr, s.clock, log)

	s.submit = approvalUsecases.NewSubmitPermitUseCase(s.permits, s.approvals, permit.NewRandomNumberGenerator(), dir, txMgr, pub, s.clock, log)
	s.pic = approvalUsecases.NewPicReviewUseCase(s.permits, s.approvals, lifecycle, assignment.NewFirst(dir), dir, txMgr, pub, s.clock, log)
	s.manager = approvalUsecases.NewManagerApprovalUseCase(s.permits, s.approvals, lifecycle, issuer, dir, txMgr, pub, s.clock, log)
	s.checkIn = NewCheckInUseCase(s.permits, lifecycle, issuer, registry, recorder, nil, dir, txMgr, pub, s.clock, hardened(), credCfg, log)
	s.checkOut = NewCheckOutUseCase(s.permits, lifecycle, registry, recorder, dir, txMgr, pub, log)
	s.door = NewDoorAccessUseCase(s.permits, registry, recorder, txMgr, log)
	return s
}

func (s *system) submitted(t *testing.T) uint {
	t.Helper()
	out, err := s.submit.Execute(context.Background(), approvalUsecases.SubmitPermitCommand{
		VisitorID:      visitorID,
		PicID:          picID,
		Purpose:        "Rack installation",
		VisitType:      string(vo.VisitInstallation),
		Location:       "DC2",
		ScheduledStart: testNow.Add(30 * time.Minute),
		ScheduledEnd:   testNow.Add(3 * time.Hour),
	})
	require.NoError(t, err)
	return out.ID
}

func (s *system) approvedByBoth(t *testing.T) *permit.Permit {
	t.Helper()
	ctx := context.Background()
	id := s.submitted(t)
	_, err := s.pic.Execute(ctx, approvalUsecases.ReviewCommand{PermitID: id, ReviewerID: picID, Approved: true})
	require.NoError(t, err)
	_, err = s.manager.Execute(ctx, approvalUsecases.ReviewCommand{PermitID: id, ReviewerID: managerID, Approved: true})
	require.NoError(t, err)

	p, err := s.permits.GetByID(ctx, id)
	require.NoError(t, err)
	return p
}

func (s *system) eventsOf(t *testing.T, permitID uint) []*accesslog.Event {
	t.Helper()
	events, _, err := s.events.List(context.Background(), accesslog.EventFilter{PermitID: &permitID, PageSize: 50})
	require.NoError(t, err)
	return events
}

func TestScenario_TwoTierApproval(t *testing.T) {
	s := newSystem(t)
	p := s.approvedByBoth(t)

	assert.Equal(t, vo.StatusApproved, p.Status())
	assert.Len(t, p.AccessCode(), 6)
	assert.NotEmpty(t, p.AccessToken())

	records, err := s.approvals.ListByPermit(context.Background(), p.ID())
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, r := range records {
		assert.Equal(t, approval.StatusApproved, r.Status())
	}
}

func TestScenario_PicRejects(t *testing.T) {
	s := newSystem(t)
	ctx := context.Background()
	id := s.submitted(t)

	_, err := s.pic.Execute(ctx, approvalUsecases.ReviewCommand{PermitID: id, ReviewerID: picID, Comments: "wrong site"})
	require.NoError(t, err)

	p, err := s.permits.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusRejected, p.Status())

	records, err := s.approvals.ListByPermit(ctx, id)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, approval.StatusRejected, records[0].Status())
	assert.Equal(t, approval.LevelPICReview, records[0].Level())
}

func TestScenario_CheckInOnTime(t *testing.T) {
	s := newSystem(t)
	ctx := context.Background()
	p := s.approvedByBoth(t)

	res, err := s.checkIn.Execute(ctx, CheckInCommand{Identifier: p.AccessToken(), Code: p.AccessCode()})
	require.NoError(t, err)
	assert.Equal(t, string(vo.StatusActive), res.Permit.Status)
	assert.Equal(t, p.ScheduledEnd(), res.Badge.ExpiresAt)

	events := s.eventsOf(t, p.ID())
	require.Len(t, events, 1)
	assert.Equal(t, accesslog.EventCheckIn, events[0].Type())
	assert.Equal(t, accesslog.OutcomeSuccess, events[0].Outcome())
}

func TestScenario_CheckInWithExpiredCode(t *testing.T) {
	s := newSystem(t)
	ctx := context.Background()
	p := s.approvedByBoth(t)

	s.clock.Advance(6 * time.Minute)
	_, err := s.checkIn.Execute(ctx, CheckInCommand{Identifier: p.AccessToken(), Code: p.AccessCode()})
	require.Error(t, err)

	stored, err := s.permits.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusApproved, stored.Status())

	events := s.eventsOf(t, p.ID())
	require.Len(t, events, 1)
	assert.Equal(t, accesslog.EventDenied, events[0].Type())
	assert.Equal(t, accesslog.OutcomeFailed, events[0].Outcome())

	badges, err := s.badges.ListByPermitID(ctx, p.ID())
	require.NoError(t, err)
	assert.Empty(t, badges)
}

func TestScenario_CheckOut(t *testing.T) {
	s := newSystem(t)
	ctx := context.Background()
	p := s.approvedByBoth(t)

	in, err := s.checkIn.Execute(ctx, CheckInCommand{Identifier: p.AccessToken(), Code: p.AccessCode()})
	require.NoError(t, err)
	_, err = s.checkOut.Execute(ctx, CheckOutCommand{PermitID: p.ID(), ActorID: picID})
	require.NoError(t, err)

	stored, err := s.permits.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusCompleted, stored.Status())

	b, err := s.badges.GetByID(ctx, in.Badge.ID)
	require.NoError(t, err)
	assert.False(t, b.IsActive())

	checkOut := accesslog.EventCheckOut
	events, _, err := s.events.List(ctx, accesslog.EventFilter{Type: &checkOut})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, accesslog.OutcomeSuccess, events[0].Outcome())
}

func TestScenario_DoorWithExpiredBadge(t *testing.T) {
	s := newSystem(t)
	ctx := context.Background()
	p := s.approvedByBoth(t)

	in, err := s.checkIn.Execute(ctx, CheckInCommand{Identifier: p.AccessToken(), Code: p.AccessCode()})
	require.NoError(t, err)

	s.clock.Set(p.ScheduledEnd().Add(time.Minute))
	res, err := s.door.Execute(ctx, DoorAccessCommand{RFIDTag: in.Badge.RFIDTag, Location: "Cage 4", Direction: "ENTRY"})
	require.NoError(t, err)
	assert.False(t, res.Granted)

	b, err := s.badges.GetByID(ctx, in.Badge.ID)
	require.NoError(t, err)
	assert.False(t, b.IsActive())

	denied := accesslog.EventDenied
	events, _, err := s.events.List(ctx, accesslog.EventFilter{Type: &denied})
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, accesslog.OutcomeUnauthorized, events[0].Outcome())

	stored, err := s.permits.GetByID(ctx, p.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, stored.Status())
}
