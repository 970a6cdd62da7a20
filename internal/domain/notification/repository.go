package notification

import (
	"context"
	"time"
)

type InboxRepository interface {
	Append(ctx context.Context, item *InboxItem) error
	ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, page, pageSize int) ([]*InboxItem, int64, error)
	// MarkRead reports false when the item does not belong to the recipient.
	MarkRead(ctx context.Context, itemID, recipientID uint, at time.Time) (bool, error)
}
