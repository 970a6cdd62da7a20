package dto

import (
	"time"

	"github.com/orris-inc/permitgate/internal/domain/notification"
)

type InboxItemResponse struct {
	ID        uint       `json:"id"`
	Kind      string     `json:"kind"`
	Subject   string     `json:"subject"`
	Body      string     `json:"body"`
	PermitID  *uint      `json:"permit_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at"`
}

func ToInboxItemResponse(item *notification.InboxItem) *InboxItemResponse {
	if item == nil {
		return nil
	}
	resp := &InboxItemResponse{
		ID:        item.ID(),
		Kind:      string(item.Kind()),
		Subject:   item.Subject(),
		Body:      item.Body(),
		CreatedAt: item.CreatedAt(),
		ReadAt:    item.ReadAt(),
	}
	if id := item.PermitID(); id != 0 {
		resp.PermitID = &id
	}
	return resp
}

func ToInboxItemResponseList(items []*notification.InboxItem) []*InboxItemResponse {
	out := make([]*InboxItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, ToInboxItemResponse(item))
	}
	return out
}
