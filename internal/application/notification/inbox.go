package notification

import (
	"context"

	"github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
	"github.com/orris-inc/permitgate/internal/shared/utils"
)

// InboxNotifier is the in-app transport: it stores the message for the
// recipient to read later.
type InboxNotifier struct {
	repo  notification.InboxRepository
	clock biztime.Clock
}

func NewInboxNotifier(repo notification.InboxRepository, clock biztime.Clock) *InboxNotifier {
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	return &InboxNotifier{repo: repo, clock: clock}
}

func (n *InboxNotifier) Notify(ctx context.Context, msg notification.Message) error {
	item, err := notification.NewInboxItem(msg, n.clock.Now())
	if err != nil {
		return err
	}
	return n.repo.Append(ctx, item)
}

type InboxService struct {
	repo   notification.InboxRepository
	clock  biztime.Clock
	logger logger.Interface
}

func NewInboxService(repo notification.InboxRepository, clock biztime.Clock, logger logger.Interface) *InboxService {
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	return &InboxService{repo: repo, clock: clock, logger: logger}
}

func (s *InboxService) List(ctx context.Context, recipientID uint, unreadOnly bool, page, pageSize int) ([]*notification.InboxItem, int64, error) {
	if recipientID == 0 {
		return nil, 0, errors.NewValidationError("recipient is required")
	}
	p := utils.ValidatePagination(page, pageSize)
	items, total, err := s.repo.ListByRecipient(ctx, recipientID, unreadOnly, p.Page, p.PageSize)
	if err != nil {
		s.logger.Errorw("failed to list inbox", "recipient_id", recipientID, "error", err)
		return nil, 0, errors.NewInternalError("failed to list notifications")
	}
	return items, total, nil
}

func (s *InboxService) MarkRead(ctx context.Context, itemID, recipientID uint) error {
	ok, err := s.repo.MarkRead(ctx, itemID, recipientID, s.clock.Now())
	if err != nil {
		s.logger.Errorw("failed to mark notification read", "item_id", itemID, "error", err)
		return errors.NewInternalError("failed to update notification")
	}
	if !ok {
		return errors.NewNotFoundError("notification not found")
	}
	return nil
}
