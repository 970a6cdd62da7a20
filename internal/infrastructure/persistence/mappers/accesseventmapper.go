package mappers

import (
	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
)

type AccessEventMapper interface {
	ToModel(e *accesslog.Event) *models.AccessEventModel
	ToDomain(model *models.AccessEventModel) (*accesslog.Event, error)
}

type AccessEventMapperImpl struct{}

func NewAccessEventMapper() AccessEventMapper {
	return &AccessEventMapperImpl{}
}

func (m *AccessEventMapperImpl) ToModel(e *accesslog.Event) *models.AccessEventModel {
	return &models.AccessEventModel{
		ID:         e.ID(),
		PermitID:   e.PermitID(),
		PersonID:   e.PersonID(),
		EventType:  string(e.Type()),
		Location:   e.Location(),
		Outcome:    string(e.Outcome()),
		OccurredAt: biztime.ToMillis(e.OccurredAt()),
		Remarks:    e.Remarks(),
		DeviceID:   e.DeviceID(),
	}
}

func (m *AccessEventMapperImpl) ToDomain(model *models.AccessEventModel) (*accesslog.Event, error) {
	if model == nil {
		return nil, nil
	}
	return accesslog.NewEvent(
		model.ID,
		model.PermitID,
		model.PersonID,
		accesslog.EventType(model.EventType),
		model.Location,
		accesslog.Outcome(model.Outcome),
		biztime.FromMillis(model.OccurredAt),
		model.Remarks,
		model.DeviceID,
	)
}
