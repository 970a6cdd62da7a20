package usecases

import (
	"context"

	"github.com/orris-inc/permitgate/internal/application/credential"
	"github.com/orris-inc/permitgate/internal/application/permit/dto"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
)

// PermitTransitioner is the permit lifecycle seen by the approval workflow.
type PermitTransitioner interface {
	Transition(ctx context.Context, p *permit.Permit, target vo.PermitStatus, actorID uint, reason string) error
}

type CredentialIssuer interface {
	Issue(p *permit.Permit) (*credential.Credential, error)
}

type SubmitPermitExecutor interface {
	Execute(ctx context.Context, cmd SubmitPermitCommand) (*dto.PermitDTO, error)
}

type PicReviewExecutor interface {
	Execute(ctx context.Context, cmd ReviewCommand) (*ReviewResult, error)
}

type ManagerApprovalExecutor interface {
	Execute(ctx context.Context, cmd ReviewCommand) (*ReviewResult, error)
}

type CancelPermitExecutor interface {
	Execute(ctx context.Context, cmd CancelPermitCommand) (*dto.PermitDTO, error)
}

type ListApprovalsExecutor interface {
	Execute(ctx context.Context, query ListApprovalsQuery) ([]*dto.ApprovalDTO, error)
}
