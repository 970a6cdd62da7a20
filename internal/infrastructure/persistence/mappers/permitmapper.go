package mappers

import (
	"encoding/json"
	"fmt"

	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
)

// PermitMapper handles the conversion between Permit domain entities and persistence models.
type PermitMapper interface {
	ToModel(p *permit.Permit) (*models.PermitModel, error)
	ToDomain(model *models.PermitModel) (*permit.Permit, error)
}

type PermitMapperImpl struct{}

func NewPermitMapper() PermitMapper {
	return &PermitMapperImpl{}
}

func (m *PermitMapperImpl) ToModel(p *permit.Permit) (*models.PermitModel, error) {
	equipment, err := json.Marshal(p.Equipment())
	if err != nil {
		return nil, fmt.Errorf("failed to encode equipment: %w", err)
	}

	return &models.PermitModel{
		ID:              p.ID(),
		Number:          p.Number(),
		VisitorID:       p.VisitorID(),
		PicID:           p.PicID(),
		Purpose:         p.Purpose(),
		VisitType:       p.VisitType().String(),
		Location:        p.Location(),
		ScheduledStart:  biztime.ToMillis(p.ScheduledStart()),
		ScheduledEnd:    biztime.ToMillis(p.ScheduledEnd()),
		Equipment:       equipment,
		Status:          p.Status().String(),
		AccessCode:      nullableString(p.AccessCode()),
		CodeExpiresAt:   biztime.ToMillisPtr(p.CodeExpiresAt()),
		CodeConsumedAt:  biztime.ToMillisPtr(p.CodeConsumedAt()),
		AccessToken:     nullableString(p.AccessToken()),
		ActualCheckIn:   biztime.ToMillisPtr(p.ActualCheckIn()),
		ActualCheckOut:  biztime.ToMillisPtr(p.ActualCheckOut()),
		RejectionReason: p.RejectionReason(),
		Version:         p.Version(),
		CreatedAt:       biztime.ToMillis(p.CreatedAt()),
		UpdatedAt:       biztime.ToMillis(p.UpdatedAt()),
	}, nil
}

func (m *PermitMapperImpl) ToDomain(model *models.PermitModel) (*permit.Permit, error) {
	if model == nil {
		return nil, nil
	}

	var equipment []string
	if len(model.Equipment) > 0 {
		if err := json.Unmarshal(model.Equipment, &equipment); err != nil {
			return nil, fmt.Errorf("failed to decode equipment of permit %d: %w", model.ID, err)
		}
	}

	return permit.ReconstructPermit(
		model.ID,
		model.Number,
		model.VisitorID,
		model.PicID,
		model.Purpose,
		vo.VisitType(model.VisitType),
		model.Location,
		biztime.FromMillis(model.ScheduledStart),
		biztime.FromMillis(model.ScheduledEnd),
		equipment,
		vo.PermitStatus(model.Status),
		model.Version,
		biztime.FromMillis(model.CreatedAt),
		biztime.FromMillis(model.UpdatedAt),
		&permit.AccessData{
			AccessCode:      derefString(model.AccessCode),
			CodeExpiresAt:   biztime.FromMillisPtr(model.CodeExpiresAt),
			CodeConsumedAt:  biztime.FromMillisPtr(model.CodeConsumedAt),
			AccessToken:     derefString(model.AccessToken),
			ActualCheckIn:   biztime.FromMillisPtr(model.ActualCheckIn),
			ActualCheckOut:  biztime.FromMillisPtr(model.ActualCheckOut),
			RejectionReason: model.RejectionReason,
		},
	)
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
