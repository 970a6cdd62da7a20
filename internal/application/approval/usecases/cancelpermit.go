package usecases

import (
	"context"
	"strings"

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

const cancelComment = "permit cancelled"

// cancelComments is the note left on approvals closed by a cancellation.
func cancelComments(reason string) string {
	if reason == "" {
		return cancelComment
	}
	return cancelComment + ": " + reason
}

type CancelPermitCommand struct {
	PermitID uint
	ActorID  uint
	Reason   string
}

type CancelPermitUseCase struct {
	reviewDeps
}

func NewCancelPermitUseCase(
	permitRepo permit.QueryRepository,
	approvalRepo approval.Repository,
	lifecycle PermitTransitioner,
	directory directory.Directory,
	txMgr *db.TransactionManager,
	publisher notification.Publisher,
	clock biztime.Clock,
	logger logger.Interface,
) *CancelPermitUseCase {
	return &CancelPermitUseCase{
		reviewDeps: reviewDeps{
			permitRepo:   permitRepo,
			approvalRepo: approvalRepo,
			lifecycle:    lifecycle,
			directory:    directory,
			txMgr:        txMgr,
			publisher:    publisher,
			clock:        clock,
			logger:       logger,
		},
	}
}

// Execute withdraws a permit that is still in the approval chain. Pending
// approval records are closed as rejected so they leave every approver's queue.
func (uc *CancelPermitUseCase) Execute(ctx context.Context, cmd CancelPermitCommand) (*dto.PermitDTO, error) {
	uc.logger.Infow("executing cancel permit use case", "permit_id", cmd.PermitID, "actor_id", cmd.ActorID)

	reason := strings.TrimSpace(cmd.Reason)
	if len(reason) > maxCommentsLength {
		return nil, errors.NewValidationError("reason exceeds maximum length of 1000 characters")
	}

	p, err := uc.loadPermit(ctx, cmd.PermitID)
	if err != nil {
		return nil, err
	}
	if !p.IsOwnedBy(cmd.ActorID) && p.PicID() != cmd.ActorID {
		return nil, errors.NewUnauthorizedError("only the visitor or the PIC can cancel this permit")
	}
	if !p.Status().IsPending() {
		return nil, errors.NewInvalidStateError("only a permit awaiting approval can be cancelled")
	}

	err = uc.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		if err := uc.lifecycle.Transition(txCtx, p, vo.StatusCancelled, cmd.ActorID, reason); err != nil {
			return err
		}

		records, err := uc.approvalRepo.ListByPermit(txCtx, p.ID())
		if err != nil {
			uc.logger.Errorw("failed to list approvals", "permit_id", p.ID(), "error", err)
			return errors.NewInternalError("failed to list approvals")
		}
		for _, rec := range records {
			if !rec.IsPending() {
				continue
			}
			if err := rec.Resolve(false, cmd.ActorID, cancelComments(reason), uc.clock.Now()); err != nil {
				return errors.NewInternalError(err.Error())
			}
			if _, err := uc.approvalRepo.Resolve(txCtx, rec); err != nil {
				uc.logger.Errorw("failed to close approval", "approval_id", rec.ID(), "error", err)
				return errors.NewInternalError("failed to close approval")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Infow("permit cancelled", "permit_id", p.ID(), "number", p.Number(), "actor_id", cmd.ActorID)

	uc.publish(ctx, notification.PermitCancelled(p, uc.person(ctx, p.VisitorID())))
	if p.PicID() != cmd.ActorID {
		uc.publish(ctx, notification.PermitCancelled(p, uc.person(ctx, p.PicID())))
	}

	return dto.ToPermitDTO(p, false), nil
}
