package usecases

import (
	"context"

	"github.com/orris-inc/permitgate/internal/application/permit/dto"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
	"github.com/orris-inc/permitgate/internal/shared/qrcode"
)

// GetPermitQuery looks a permit up by id or, when PermitID is zero, by number.
type GetPermitQuery struct {
	PermitID uint
	Number   string
	ActorID  uint
}

type GetPermitUseCase struct {
	permitRepo permit.QueryRepository
	logger     logger.Interface
}

func NewGetPermitUseCase(permitRepo permit.QueryRepository, logger logger.Interface) *GetPermitUseCase {
	return &GetPermitUseCase{
		permitRepo: permitRepo,
		logger:     logger,
	}
}

func (uc *GetPermitUseCase) Execute(ctx context.Context, query GetPermitQuery) (*dto.PermitDTO, error) {
	var (
		p   *permit.Permit
		err error
	)
	switch {
	case query.PermitID != 0:
		p, err = uc.permitRepo.GetByID(ctx, query.PermitID)
	case query.Number != "":
		p, err = uc.permitRepo.GetByNumber(ctx, query.Number)
	default:
		return nil, errors.NewValidationError("permit ID or number is required")
	}
	if err != nil {
		uc.logger.Errorw("failed to get permit", "permit_id", query.PermitID, "number", query.Number, "error", err)
		return nil, errors.NewInternalError("failed to get permit")
	}
	if p == nil {
		return nil, errors.NewNotFoundError("permit not found")
	}

	out := dto.ToPermitDTO(p, p.IsOwnedBy(query.ActorID))
	if out.AccessToken != "" {
		if out.QRCode, err = qrcode.Base64PNG(out.AccessToken); err != nil {
			uc.logger.Warnw("failed to render permit QR code", "permit_id", p.ID(), "error", err)
		}
	}
	return out, nil
}
