package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/permitgate/internal/shared/db"
)

type InboxRepository struct {
	db     *gorm.DB
	mapper mappers.InboxItemMapper
}

func NewInboxRepository(db *gorm.DB) *InboxRepository {
	return &InboxRepository{
		db:     db,
		mapper: mappers.NewInboxItemMapper(),
	}
}

func (r *InboxRepository) Append(ctx context.Context, item *notification.InboxItem) error {
	model := r.mapper.ToModel(item)
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to store inbox item: %w", err)
	}
	item.SetID(model.ID)
	return nil
}

func (r *InboxRepository) ListByRecipient(ctx context.Context, recipientID uint, unreadOnly bool, page, pageSize int) ([]*notification.InboxItem, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.InboxItemModel{}).Where("recipient_id = ?", recipientID)
	if unreadOnly {
		query = query.Where("read_at IS NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inbox items: %w", err)
	}

	var itemModels []models.InboxItemModel
	if err := query.Order("id DESC").Scopes(db.Paginate(page, pageSize)).Find(&itemModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list inbox items: %w", err)
	}

	items := make([]*notification.InboxItem, 0, len(itemModels))
	for i := range itemModels {
		item, err := r.mapper.ToDomain(&itemModels[i])
		if err != nil {
			return nil, 0, err
		}
		items = append(items, item)
	}
	return items, total, nil
}

func (r *InboxRepository) MarkRead(ctx context.Context, itemID, recipientID uint, at time.Time) (bool, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	result := tx.Model(&models.InboxItemModel{}).
		Where("id = ? AND recipient_id = ?", itemID, recipientID).
		Where("read_at IS NULL").
		Update("read_at", at.UnixMilli())
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark inbox item read: %w", result.Error)
	}
	if result.RowsAffected == 1 {
		return true, nil
	}

	// already read counts as success for its owner
	var count int64
	if err := tx.Model(&models.InboxItemModel{}).
		Where("id = ? AND recipient_id = ?", itemID, recipientID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to find inbox item: %w", err)
	}
	return count == 1, nil
}
