package mappers

import (
	"github.com/orris-inc/permitgate/internal/domain/badge"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
)

type BadgeMapper interface {
	ToModel(b *badge.TemporaryBadge) *models.TemporaryBadgeModel
	ToDomain(model *models.TemporaryBadgeModel) (*badge.TemporaryBadge, error)
}

type BadgeMapperImpl struct{}

func NewBadgeMapper() BadgeMapper {
	return &BadgeMapperImpl{}
}

func (m *BadgeMapperImpl) ToModel(b *badge.TemporaryBadge) *models.TemporaryBadgeModel {
	model := &models.TemporaryBadgeModel{
		ID:                 b.ID(),
		PermitID:           b.PermitID(),
		CardNumber:         b.CardNumber(),
		RFIDTag:            b.RFIDTag(),
		IssuedAt:           biztime.ToMillis(b.IssuedAt()),
		ExpiresAt:          biztime.ToMillis(b.ExpiresAt()),
		Active:             b.IsActive(),
		DeactivatedAt:      biztime.ToMillisPtr(b.DeactivatedAt()),
		DeactivationReason: b.DeactivationReason(),
	}
	if b.IsActive() {
		permitID := b.PermitID()
		model.ActivePermitID = &permitID
	}
	return model
}

func (m *BadgeMapperImpl) ToDomain(model *models.TemporaryBadgeModel) (*badge.TemporaryBadge, error) {
	if model == nil {
		return nil, nil
	}
	return badge.ReconstructTemporaryBadge(
		model.ID,
		model.PermitID,
		model.CardNumber,
		model.RFIDTag,
		biztime.FromMillis(model.IssuedAt),
		biztime.FromMillis(model.ExpiresAt),
		model.Active,
		biztime.FromMillisPtr(model.DeactivatedAt),
		model.DeactivationReason,
	)
}
