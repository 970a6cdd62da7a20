package mappers

import (
	"github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
)

type InboxItemMapper interface {
	ToModel(i *notification.InboxItem) *models.InboxItemModel
	ToDomain(model *models.InboxItemModel) (*notification.InboxItem, error)
}

type InboxItemMapperImpl struct{}

func NewInboxItemMapper() InboxItemMapper {
	return &InboxItemMapperImpl{}
}

func (m *InboxItemMapperImpl) ToModel(i *notification.InboxItem) *models.InboxItemModel {
	return &models.InboxItemModel{
		ID:          i.ID(),
		RecipientID: i.RecipientID(),
		Kind:        string(i.Kind()),
		Subject:     i.Subject(),
		Body:        i.Body(),
		PermitID:    i.PermitID(),
		ReadAt:      biztime.ToMillisPtr(i.ReadAt()),
		CreatedAt:   biztime.ToMillis(i.CreatedAt()),
	}
}

func (m *InboxItemMapperImpl) ToDomain(model *models.InboxItemModel) (*notification.InboxItem, error) {
	if model == nil {
		return nil, nil
	}
	return notification.ReconstructInboxItem(
		model.ID,
		model.RecipientID,
		notification.Kind(model.Kind),
		model.Subject,
		model.Body,
		model.PermitID,
		biztime.FromMillisPtr(model.ReadAt),
		biztime.FromMillis(model.CreatedAt),
	)
}
