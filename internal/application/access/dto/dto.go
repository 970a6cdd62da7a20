package dto

import (
	"time"

	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/domain/badge"
)

type BadgeDTO struct {
	ID                 uint       `json:"id"`
	PermitID           uint       `json:"permit_id"`
	CardNumber         string     `json:"card_number"`
	RFIDTag            string     `json:"rfid_tag"`
	IssuedAt           time.Time  `json:"issued_at"`
	ExpiresAt          time.Time  `json:"expires_at"`
	Active             bool       `json:"active"`
	DeactivatedAt      *time.Time `json:"deactivated_at,omitempty"`
	DeactivationReason string     `json:"deactivation_reason,omitempty"`
}

func ToBadgeDTO(b *badge.TemporaryBadge) *BadgeDTO {
	if b == nil {
		return nil
	}
	return &BadgeDTO{
		ID:                 b.ID(),
		PermitID:           b.PermitID(),
		CardNumber:         b.CardNumber(),
		RFIDTag:            b.RFIDTag(),
		IssuedAt:           b.IssuedAt(),
		ExpiresAt:          b.ExpiresAt(),
		Active:             b.IsActive(),
		DeactivatedAt:      b.DeactivatedAt(),
		DeactivationReason: b.DeactivationReason(),
	}
}

type EventDTO struct {
	ID         string    `json:"id"`
	PermitID   *uint     `json:"permit_id"`
	PersonID   *uint     `json:"person_id"`
	Type       string    `json:"type"`
	Location   string    `json:"location"`
	Outcome    string    `json:"outcome"`
	OccurredAt time.Time `json:"occurred_at"`
	Remarks    string    `json:"remarks,omitempty"`
	DeviceID   string    `json:"device_id,omitempty"`
}

func ToEventDTO(e *accesslog.Event) *EventDTO {
	if e == nil {
		return nil
	}
	return &EventDTO{
		ID:         e.ID(),
		PermitID:   e.PermitID(),
		PersonID:   e.PersonID(),
		Type:       string(e.Type()),
		Location:   e.Location(),
		Outcome:    string(e.Outcome()),
		OccurredAt: e.OccurredAt(),
		Remarks:    e.Remarks(),
		DeviceID:   e.DeviceID(),
	}
}

func ToEventDTOList(events []*accesslog.Event) []*EventDTO {
	out := make([]*EventDTO, 0, len(events))
	for _, e := range events {
		out = append(out, ToEventDTO(e))
	}
	return out
}
