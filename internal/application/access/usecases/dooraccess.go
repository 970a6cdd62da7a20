package usecases

import (
	"context"
	"fmt"
	"strings"

	appAccesslog "github.com/orris-inc/permitgate/internal/application/accesslog"
	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/shared/db"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

const defaultDoorLocation = "door"

type DoorAccessCommand struct {
	RFIDTag   string
	Location  string
	Direction string
	DeviceID  string
}

type DoorAccessResult struct {
	Granted  bool   `json:"granted"`
	PermitID uint   `json:"permit_id,omitempty"`
	BadgeID  uint   `json:"badge_id,omitempty"`
	EventID  string `json:"event_id"`
}

type DoorAccessUseCase struct {
	permitRepo permit.QueryRepository
	badges     BadgeRegistry
	recorder   EventRecorder
	txMgr      *db.TransactionManager
	logger     logger.Interface
}

func NewDoorAccessUseCase(
	permitRepo permit.QueryRepository,
	badges BadgeRegistry,
	recorder EventRecorder,
	txMgr *db.TransactionManager,
	logger logger.Interface,
) *DoorAccessUseCase {
	return &DoorAccessUseCase{
		permitRepo: permitRepo,
		badges:     badges,
		recorder:   recorder,
		txMgr:      txMgr,
		logger:     logger,
	}
}

// Execute decides whether a badge opens a door. It never changes permit status;
// an expired badge is switched off in the same transaction that records the
// refusal. Every call records exactly one event, malformed taps included.
func (uc *DoorAccessUseCase) Execute(ctx context.Context, cmd DoorAccessCommand) (*DoorAccessResult, error) {
	tag := strings.TrimSpace(cmd.RFIDTag)
	location := strings.TrimSpace(cmd.Location)
	if location == "" {
		location = defaultDoorLocation
	}
	uc.logger.Infow("executing door access use case", "location", location, "direction", cmd.Direction, "device_id", cmd.DeviceID)

	direction := strings.ToUpper(strings.TrimSpace(cmd.Direction))
	eventType := accesslog.EventType(direction)
	validDirection := eventType == accesslog.EventEntry || eventType == accesslog.EventExit

	result := &DoorAccessResult{}
	err := uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		entry := appAccesslog.Entry{
			Type:     accesslog.EventDenied,
			Location: location,
			Outcome:  accesslog.OutcomeUnauthorized,
			DeviceID: cmd.DeviceID,
		}

		b, usable, err := uc.badges.Lookup(txCtx, tag)
		if err != nil {
			return err
		}

		var p *permit.Permit
		if b != nil {
			result.BadgeID = b.ID()
			result.PermitID = b.PermitID()
			entry.PermitID = appAccesslog.Ref(b.PermitID())
			if p, err = uc.permitRepo.GetByID(txCtx, b.PermitID()); err != nil {
				return err
			}
			if p != nil {
				entry.PersonID = appAccesslog.Ref(p.VisitorID())
			}
		}

		switch {
		case !validDirection:
			entry.Remarks = fmt.Sprintf("invalid direction %q", direction)
		case b == nil:
			entry.Remarks = "unknown badge"
		case !usable:
			entry.Remarks = "badge inactive or expired"
		case p == nil || p.Status() != vo.StatusActive:
			entry.Remarks = "permit not active"
		default:
			entry.Type = eventType
			entry.Outcome = accesslog.OutcomeSuccess
			entry.Remarks = "door access via badge " + b.CardNumber()
			result.Granted = true
		}

		event, err := uc.recorder.Record(txCtx, entry)
		if err != nil {
			return err
		}
		result.EventID = event.ID()
		return nil
	})
	if err != nil {
		uc.logger.Errorw("door access check failed", "location", location, "error", err)
		return nil, errors.NewInternalError("door access check failed")
	}

	if !result.Granted {
		uc.logger.Warnw("door access denied", "location", location, "permit_id", result.PermitID, "badge_id", result.BadgeID)
	}
	return result, nil
}
