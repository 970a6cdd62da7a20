package usecases

import (
	"context"

	"github.com/orris-inc/permitgate/internal/application/permit/dto"
	"github.com/orris-inc/permitgate/internal/domain/approval"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

// ListApprovalsQuery selects either the approval history of one permit or the
// pending queue of one approver.
type ListApprovalsQuery struct {
	PermitID   uint
	ApproverID uint
}

type ListApprovalsUseCase struct {
	approvalRepo approval.QueryRepository
	permitRepo   permit.QueryRepository
	logger       logger.Interface
}

func NewListApprovalsUseCase(approvalRepo approval.QueryRepository, permitRepo permit.QueryRepository, logger logger.Interface) *ListApprovalsUseCase {
	return &ListApprovalsUseCase{
		approvalRepo: approvalRepo,
		permitRepo:   permitRepo,
		logger:       logger,
	}
}

func (uc *ListApprovalsUseCase) Execute(ctx context.Context, query ListApprovalsQuery) ([]*dto.ApprovalDTO, error) {
	uc.logger.Infow("executing list approvals use case", "permit_id", query.PermitID, "approver_id", query.ApproverID)

	switch {
	case query.PermitID != 0:
		p, err := uc.permitRepo.GetByID(ctx, query.PermitID)
		if err != nil {
			uc.logger.Errorw("failed to get permit", "permit_id", query.PermitID, "error", err)
			return nil, errors.NewInternalError("failed to get permit")
		}
		if p == nil {
			return nil, errors.NewNotFoundError("permit not found")
		}
		records, err := uc.approvalRepo.ListByPermit(ctx, query.PermitID)
		if err != nil {
			uc.logger.Errorw("failed to list approvals", "permit_id", query.PermitID, "error", err)
			return nil, errors.NewInternalError("failed to list approvals")
		}
		return dto.ToApprovalDTOList(records), nil

	case query.ApproverID != 0:
		records, err := uc.approvalRepo.ListPendingByApprover(ctx, query.ApproverID)
		if err != nil {
			uc.logger.Errorw("failed to list pending approvals", "approver_id", query.ApproverID, "error", err)
			return nil, errors.NewInternalError("failed to list approvals")
		}
		return dto.ToApprovalDTOList(records), nil
	}

	return nil, errors.NewValidationError("permit or approver is required")
}
