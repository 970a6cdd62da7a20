package usecases

import (
	"context"
	"time"

	"github.com/orris-inc/permitgate/internal/application/notification"
	"github.com/orris-inc/permitgate/internal/domain/directory"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

type RegenerateCodeCommand struct {
	PermitID uint
	ActorID  uint
}

type RegenerateCodeResult struct {
	PermitID  uint      `json:"permit_id"`
	Code      string    `json:"access_code,omitempty"`
	ExpiresAt time.Time `json:"code_expires_at"`
}

type RegenerateCodeUseCase struct {
	permitRepo permit.QueryRepository
	writer     PermitWriter
	issuer     CodeRegenerator
	directory  directory.Directory
	publisher  notification.Publisher
	logger     logger.Interface
}

func NewRegenerateCodeUseCase(
	permitRepo permit.QueryRepository,
	writer PermitWriter,
	issuer CodeRegenerator,
	directory directory.Directory,
	publisher notification.Publisher,
	logger logger.Interface,
) *RegenerateCodeUseCase {
	return &RegenerateCodeUseCase{
		permitRepo: permitRepo,
		writer:     writer,
		issuer:     issuer,
		directory:  directory,
		publisher:  publisher,
		logger:     logger,
	}
}

// Execute replaces the one-time code of an approved permit. The token stays the
// same; the previous code stops working.
func (uc *RegenerateCodeUseCase) Execute(ctx context.Context, cmd RegenerateCodeCommand) (*RegenerateCodeResult, error) {
	uc.logger.Infow("executing regenerate code use case", "permit_id", cmd.PermitID, "actor_id", cmd.ActorID)

	p, err := uc.permitRepo.GetByID(ctx, cmd.PermitID)
	if err != nil {
		uc.logger.Errorw("failed to get permit", "permit_id", cmd.PermitID, "error", err)
		return nil, errors.NewInternalError("failed to get permit")
	}
	if p == nil {
		return nil, errors.NewNotFoundError("permit not found")
	}
	if !p.IsOwnedBy(cmd.ActorID) && p.PicID() != cmd.ActorID {
		return nil, errors.NewUnauthorizedError("only the visitor or the PIC can request a new code")
	}
	if p.Status() != vo.StatusApproved {
		return nil, errors.NewInvalidStateError("a new code can only be issued for an approved permit")
	}

	cred, err := uc.issuer.Regenerate(p)
	if err != nil {
		uc.logger.Errorw("failed to regenerate code", "permit_id", p.ID(), "error", err)
		return nil, errors.NewInvalidStateError(err.Error())
	}
	if err := uc.writer.Save(ctx, p); err != nil {
		return nil, err
	}

	uc.logger.Infow("access code regenerated", "permit_id", p.ID(), "number", p.Number())

	if visitor, err := uc.directory.GetPerson(ctx, p.VisitorID()); err != nil || visitor == nil {
		uc.logger.Warnw("visitor not found for code notification", "permit_id", p.ID(), "visitor_id", p.VisitorID(), "error", err)
	} else {
		uc.publisher.Publish(ctx, notification.CodeRegenerated(p, visitor, cred.Code, cred.ExpiresAt))
	}

	result := &RegenerateCodeResult{PermitID: p.ID(), ExpiresAt: cred.ExpiresAt}
	if p.IsOwnedBy(cmd.ActorID) {
		result.Code = cred.Code
	}
	return result, nil
}
