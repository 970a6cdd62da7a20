package usecases

import (
	"context"

	"github.com/orris-inc/permitgate/internal/application/credential"
	"github.com/orris-inc/permitgate/internal/application/permit/dto"
	"github.com/orris-inc/permitgate/internal/domain/permit"
)

// PermitWriter persists permit changes under the conditional write.
type PermitWriter interface {
	Save(ctx context.Context, p *permit.Permit) error
}

type CodeRegenerator interface {
	Regenerate(p *permit.Permit) (*credential.Credential, error)
}

type GetPermitExecutor interface {
	Execute(ctx context.Context, query GetPermitQuery) (*dto.PermitDTO, error)
}

type ListPermitsExecutor interface {
	Execute(ctx context.Context, query ListPermitsQuery) (*ListPermitsResult, error)
}

type RegenerateCodeExecutor interface {
	Execute(ctx context.Context, cmd RegenerateCodeCommand) (*RegenerateCodeResult, error)
}
