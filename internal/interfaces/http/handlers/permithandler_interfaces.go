package handlers

import (
	"context"

	approvalUsecases "github.com/orris-inc/permitgate/internal/application/approval/usecases"
	"github.com/orris-inc/permitgate/internal/application/permit/dto"
	permitUsecases "github.com/orris-inc/permitgate/internal/application/permit/usecases"
)

// Use case interfaces for PermitHandler

type submitPermitUseCase interface {
	Execute(ctx context.Context, cmd approvalUsecases.SubmitPermitCommand) (*dto.PermitDTO, error)
}

type getPermitUseCase interface {
	Execute(ctx context.Context, query permitUsecases.GetPermitQuery) (*dto.PermitDTO, error)
}

type listPermitsUseCase interface {
	Execute(ctx context.Context, query permitUsecases.ListPermitsQuery) (*permitUsecases.ListPermitsResult, error)
}

type cancelPermitUseCase interface {
	Execute(ctx context.Context, cmd approvalUsecases.CancelPermitCommand) (*dto.PermitDTO, error)
}

type regenerateCodeUseCase interface {
	Execute(ctx context.Context, cmd permitUsecases.RegenerateCodeCommand) (*permitUsecases.RegenerateCodeResult, error)
}
