package mappers

import (
	"github.com/orris-inc/permitgate/internal/domain/approval"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
)

type ApprovalMapper interface {
	ToModel(r *approval.Record) *models.PermitApprovalModel
	ToDomain(model *models.PermitApprovalModel) (*approval.Record, error)
}

type ApprovalMapperImpl struct{}

func NewApprovalMapper() ApprovalMapper {
	return &ApprovalMapperImpl{}
}

func (m *ApprovalMapperImpl) ToModel(r *approval.Record) *models.PermitApprovalModel {
	return &models.PermitApprovalModel{
		ID:         r.ID(),
		PermitID:   r.PermitID(),
		Level:      string(r.Level()),
		ApproverID: r.ApproverID(),
		Status:     string(r.Status()),
		Comments:   r.Comments(),
		ReviewedAt: biztime.ToMillisPtr(r.ReviewedAt()),
		CreatedAt:  biztime.ToMillis(r.CreatedAt()),
		UpdatedAt:  biztime.ToMillis(r.UpdatedAt()),
	}
}

func (m *ApprovalMapperImpl) ToDomain(model *models.PermitApprovalModel) (*approval.Record, error) {
	if model == nil {
		return nil, nil
	}
	return approval.ReconstructRecord(
		model.ID,
		model.PermitID,
		approval.Level(model.Level),
		model.ApproverID,
		approval.Status(model.Status),
		model.Comments,
		biztime.FromMillisPtr(model.ReviewedAt),
		biztime.FromMillis(model.CreatedAt),
		biztime.FromMillis(model.UpdatedAt),
	)
}
