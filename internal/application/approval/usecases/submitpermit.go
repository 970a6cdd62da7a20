package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/permitgate/internal/application/notification"
	"github.com/orris-inc/permitgate/internal/application/permit/dto"
	"github.com/orris-inc/permitgate/internal/domain/approval"
	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/db"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

const maxNumberAttempts = 3

type SubmitPermitCommand struct {
	VisitorID      uint
	PicID          uint
	Purpose        string
	VisitType      string
	Location       string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	Equipment      []string
}

type SubmitPermitUseCase struct {
	permitRepo   permit.Repository
	approvalRepo approval.CommandRepository
	numbers      permit.NumberGenerator
	directory    directory.Directory
	txMgr        *db.TransactionManager
	publisher    notification.Publisher
	clock        biztime.Clock
	logger       logger.Interface
}

func NewSubmitPermitUseCase(
	permitRepo permit.Repository,
	approvalRepo approval.CommandRepository,
	numbers permit.NumberGenerator,
	directory directory.Directory,
	txMgr *db.TransactionManager,
	publisher notification.Publisher,
	clock biztime.Clock,
	logger logger.Interface,
) *SubmitPermitUseCase {
	return &SubmitPermitUseCase{
		permitRepo:   permitRepo,
		approvalRepo: approvalRepo,
		numbers:      numbers,
		directory:    directory,
		txMgr:        txMgr,
		publisher:    publisher,
		clock:        clock,
		logger:       logger,
	}
}

// Execute creates a permit in PENDING_PIC together with the PIC review it
// waits for.
func (uc *SubmitPermitUseCase) Execute(ctx context.Context, cmd SubmitPermitCommand) (*dto.PermitDTO, error) {
	uc.logger.Infow("executing submit permit use case", "visitor_id", cmd.VisitorID, "pic_id", cmd.PicID, "location", cmd.Location)

	visitType, err := vo.ParseVisitType(cmd.VisitType)
	if err != nil {
		return nil, errors.NewValidationError("invalid visit type")
	}
	now := uc.clock.Now()
	if !cmd.ScheduledEnd.After(now) {
		return nil, errors.NewValidationError("scheduled end must be in the future")
	}

	visitor, pic, err := uc.resolveParties(ctx, cmd.VisitorID, cmd.PicID)
	if err != nil {
		return nil, err
	}

	var p *permit.Permit
	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		number, err := uc.freshNumber(txCtx, now)
		if err != nil {
			return err
		}

		p, err = permit.NewPermit(number, visitor.ID, pic.ID, cmd.Purpose, visitType, cmd.Location,
			cmd.ScheduledStart, cmd.ScheduledEnd, cmd.Equipment, now)
		if err != nil {
			return errors.NewValidationError(err.Error())
		}
		if err := uc.permitRepo.Create(txCtx, p); err != nil {
			uc.logger.Errorw("failed to create permit", "number", number, "error", err)
			return errors.NewInternalError("failed to create permit")
		}

		review, err := approval.NewRecord(p.ID(), approval.LevelPICReview, pic.ID, now)
		if err != nil {
			return errors.NewInternalError(err.Error())
		}
		if err := uc.approvalRepo.Create(txCtx, review); err != nil {
			uc.logger.Errorw("failed to create PIC review", "permit_id", p.ID(), "error", err)
			return errors.NewInternalError("failed to create approval")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("permit submitted", "permit_id", p.ID(), "number", p.Number())
	uc.publisher.Publish(ctx,
		notification.PermitSubmitted(p, visitor),
		notification.ApprovalRequired(p, pic, "PIC review"),
	)

	return dto.ToPermitDTO(p, false), nil
}

func (uc *SubmitPermitUseCase) resolveParties(ctx context.Context, visitorID, picID uint) (*directory.Person, *directory.Person, error) {
	if visitorID == 0 {
		return nil, nil, errors.NewValidationError("visitor is required")
	}
	if picID == 0 {
		return nil, nil, errors.NewValidationError("PIC is required")
	}

	visitor, err := uc.directory.GetPerson(ctx, visitorID)
	if err != nil {
		uc.logger.Errorw("failed to resolve visitor", "visitor_id", visitorID, "error", err)
		return nil, nil, errors.NewInternalError("failed to resolve visitor")
	}
	if visitor == nil {
		return nil, nil, errors.NewNotFoundError("visitor not found")
	}

	pic, err := uc.directory.GetPerson(ctx, picID)
	if err != nil {
		uc.logger.Errorw("failed to resolve PIC", "pic_id", picID, "error", err)
		return nil, nil, errors.NewInternalError("failed to resolve PIC")
	}
	if pic == nil {
		return nil, nil, errors.NewNotFoundError("PIC not found")
	}
	if !pic.HasRole(directory.RolePIC) {
		return nil, nil, errors.NewValidationError("assigned person is not a PIC")
	}
	return visitor, pic, nil
}

func (uc *SubmitPermitUseCase) freshNumber(ctx context.Context, at time.Time) (string, error) {
	for i := 0; i < maxNumberAttempts; i++ {
		number, err := uc.numbers.Generate(ctx, at)
		if err != nil {
			return "", errors.NewInternalError("failed to generate permit number")
		}
		existing, err := uc.permitRepo.GetByNumber(ctx, number)
		if err != nil {
			return "", errors.NewInternalError("failed to check permit number")
		}
		if existing == nil {
			return number, nil
		}
	}
	return "", errors.NewInternalError("failed to generate a unique permit number")
}
