package handlers

import (
	"context"

	"github.com/orris-inc/permitgate/internal/application/approval/usecases"
	"github.com/orris-inc/permitgate/internal/application/permit/dto"
)

// Use case interfaces for ApprovalHandler

type reviewUseCase interface {
	Execute(ctx context.Context, cmd usecases.ReviewCommand) (*usecases.ReviewResult, error)
}

type listApprovalsUseCase interface {
	Execute(ctx context.Context, query usecases.ListApprovalsQuery) ([]*dto.ApprovalDTO, error)
}
