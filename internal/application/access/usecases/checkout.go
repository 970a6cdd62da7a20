package usecases

import (
	"context"
	"strings"

	appAccesslog "github.com/orris-inc/permitgate/internal/application/accesslog"
	appBadge "github.com/orris-inc/permitgate/internal/application/badge"
	"github.com/orris-inc/permitgate/internal/application/notification"
	"github.com/orris-inc/permitgate/internal/application/permit/dto"
	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/shared/db"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

type CheckOutCommand struct {
	PermitID uint
	ActorID  uint
	Location string
	DeviceID string
}

type CheckOutResult struct {
	Permit  *dto.PermitDTO `json:"permit"`
	BadgeID uint           `json:"badge_id,omitempty"`
	EventID string         `json:"event_id"`
}

type CheckOutUseCase struct {
	permitRepo permit.QueryRepository
	lifecycle  PermitTransitioner
	badges     BadgeRegistry
	recorder   EventRecorder
	directory  directory.Directory
	txMgr      *db.TransactionManager
	publisher  notification.Publisher
	logger     logger.Interface
}

func NewCheckOutUseCase(
	permitRepo permit.QueryRepository,
	lifecycle PermitTransitioner,
	badges BadgeRegistry,
	recorder EventRecorder,
	directory directory.Directory,
	txMgr *db.TransactionManager,
	publisher notification.Publisher,
	logger logger.Interface,
) *CheckOutUseCase {
	return &CheckOutUseCase{
		permitRepo: permitRepo,
		lifecycle:  lifecycle,
		badges:     badges,
		recorder:   recorder,
		directory:  directory,
		txMgr:      txMgr,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute completes an on-site visit: the badge is switched off, the permit
// moves to COMPLETED and a CHECK_OUT event is written, all in one transaction.
func (uc *CheckOutUseCase) Execute(ctx context.Context, cmd CheckOutCommand) (*CheckOutResult, error) {
	uc.logger.Infow("executing check-out use case", "permit_id", cmd.PermitID, "actor_id", cmd.ActorID, "location", cmd.Location)

	p, err := uc.permitRepo.GetByID(ctx, cmd.PermitID)
	if err != nil {
		uc.logger.Errorw("failed to get permit", "permit_id", cmd.PermitID, "error", err)
		return nil, errors.NewInternalError("failed to get permit")
	}
	if p == nil {
		return nil, uc.deny(ctx, nil, cmd, errors.NewNotFoundError("permit not found"))
	}
	if p.Status() != vo.StatusActive {
		return nil, uc.deny(ctx, p, cmd, errors.NewInvalidStateError("only an on-site visit can be checked out"))
	}

	var (
		badgeID uint
		event   *accesslog.Event
	)
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		b, err := uc.badges.DeactivateForPermit(txCtx, p.ID(), appBadge.ReasonCheckedOut)
		if err != nil {
			return err
		}
		if b == nil {
			uc.logger.Warnw("on-site permit has no active badge", "permit_id", p.ID())
		} else {
			badgeID = b.ID()
		}

		if err := uc.lifecycle.Transition(txCtx, p, vo.StatusCompleted, cmd.ActorID, ""); err != nil {
			return err
		}

		event, err = uc.recorder.Record(txCtx, appAccesslog.Entry{
			PermitID: appAccesslog.Ref(p.ID()),
			PersonID: appAccesslog.Ref(p.VisitorID()),
			Type:     accesslog.EventCheckOut,
			Location: checkOutLocation(p, cmd),
			Outcome:  accesslog.OutcomeSuccess,
			Remarks:  "check-out successful",
			DeviceID: cmd.DeviceID,
		})
		return err
	})
	if err != nil {
		if !errors.IsAppError(err) {
			uc.logger.Errorw("check-out failed", "permit_id", p.ID(), "error", err)
			err = errors.NewInternalError("check-out failed")
		}
		return nil, uc.deny(ctx, p, cmd, err)
	}

	uc.logger.Infow("visitor checked out", "permit_id", p.ID(), "number", p.Number(), "badge_id", badgeID)

	for _, personID := range []uint{p.VisitorID(), p.PicID()} {
		person, err := uc.directory.GetPerson(ctx, personID)
		if err != nil || person == nil {
			uc.logger.Warnw("recipient not found for check-out notification", "permit_id", p.ID(), "person_id", personID, "error", err)
			continue
		}
		uc.publisher.Publish(ctx, notification.CheckedOut(p, person))
	}

	return &CheckOutResult{Permit: dto.ToPermitDTO(p, false), BadgeID: badgeID, EventID: event.ID()}, nil
}

func (uc *CheckOutUseCase) deny(ctx context.Context, p *permit.Permit, cmd CheckOutCommand, cause error) error {
	entry := appAccesslog.Entry{
		Type:     accesslog.EventDenied,
		Location: checkOutLocation(p, cmd),
		Outcome:  accesslog.OutcomeFailed,
		Remarks:  "check-out refused: " + errors.GetAppError(cause).Message,
		DeviceID: cmd.DeviceID,
	}
	if p != nil {
		entry.PermitID = appAccesslog.Ref(p.ID())
		entry.PersonID = appAccesslog.Ref(p.VisitorID())
	}
	if _, err := uc.recorder.Record(ctx, entry); err != nil {
		uc.logger.Errorw("failed to record denied check-out", "permit_id", cmd.PermitID, "error", err)
		return errors.NewInternalError("failed to record access event")
	}
	uc.logger.Warnw("check-out denied", "permit_id", cmd.PermitID, "error", cause)
	return cause
}

func checkOutLocation(p *permit.Permit, cmd CheckOutCommand) string {
	if loc := strings.TrimSpace(cmd.Location); loc != "" {
		return loc
	}
	if p != nil {
		return p.Location()
	}
	return "gate"
}
