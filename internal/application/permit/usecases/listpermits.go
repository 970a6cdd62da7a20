package usecases

import (
	"context"

	"github.com/orris-inc/permitgate/internal/application/permit/dto"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
	"github.com/orris-inc/permitgate/internal/shared/utils"
)

type ListPermitsQuery struct {
	Status    string
	VisitorID *uint
	PicID     *uint
	Location  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
	ActorID   uint
}

type ListPermitsResult struct {
	Permits  []*dto.PermitDTO
	Total    int64
	Page     int
	PageSize int
}

type ListPermitsUseCase struct {
	permitRepo permit.QueryRepository
	logger     logger.Interface
}

func NewListPermitsUseCase(permitRepo permit.QueryRepository, logger logger.Interface) *ListPermitsUseCase {
	return &ListPermitsUseCase{
		permitRepo: permitRepo,
		logger:     logger,
	}
}

func (uc *ListPermitsUseCase) Execute(ctx context.Context, query ListPermitsQuery) (*ListPermitsResult, error) {
	pagination := utils.ValidatePagination(query.Page, query.PageSize)

	filter := permit.PermitFilter{
		VisitorID: query.VisitorID,
		PicID:     query.PicID,
		Location:  query.Location,
		Page:      pagination.Page,
		PageSize:  pagination.PageSize,
		SortBy:    query.SortBy,
		SortOrder: query.SortOrder,
	}
	if query.Status != "" {
		status, err := vo.ParsePermitStatus(query.Status)
		if err != nil {
			return nil, errors.NewValidationError("invalid status filter")
		}
		filter.Status = &status
	}

	permits, total, err := uc.permitRepo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list permits", "error", err)
		return nil, errors.NewInternalError("failed to list permits")
	}

	return &ListPermitsResult{
		Permits:  dto.ToPermitDTOList(permits, query.ActorID),
		Total:    total,
		Page:     pagination.Page,
		PageSize: pagination.PageSize,
	}, nil
}
