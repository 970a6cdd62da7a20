package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/permitgate/internal/domain/badge"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/permitgate/internal/shared/db"
)

type BadgeRepository struct {
	db     *gorm.DB
	mapper mappers.BadgeMapper
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{
		db:     db,
		mapper: mappers.NewBadgeMapper(),
	}
}

func (r *BadgeRepository) Create(ctx context.Context, b *badge.TemporaryBadge) error {
	model := r.mapper.ToModel(b)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create badge: %w", err)
	}
	return b.SetID(model.ID)
}

func (r *BadgeRepository) Deactivate(ctx context.Context, b *badge.TemporaryBadge) (bool, error) {
	model := r.mapper.ToModel(b)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.TemporaryBadgeModel{}).
		Where("id = ? AND active = ?", b.ID(), true).
		Updates(map[string]interface{}{
			"active":              false,
			"active_permit_id":    nil,
			"deactivated_at":      model.DeactivatedAt,
			"deactivation_reason": model.DeactivationReason,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to deactivate badge: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *BadgeRepository) GetByID(ctx context.Context, badgeID uint) (*badge.TemporaryBadge, error) {
	return r.findOne(ctx, "id = ?", badgeID)
}

func (r *BadgeRepository) GetByRFIDTag(ctx context.Context, rfidTag string) (*badge.TemporaryBadge, error) {
	return r.findOne(ctx, "rfid_tag = ?", rfidTag)
}

func (r *BadgeRepository) GetActiveByPermitID(ctx context.Context, permitID uint) (*badge.TemporaryBadge, error) {
	return r.findOne(ctx, "active_permit_id = ?", permitID)
}

func (r *BadgeRepository) ListByPermitID(ctx context.Context, permitID uint) ([]*badge.TemporaryBadge, error) {
	var badgeModels []models.TemporaryBadgeModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("permit_id = ?", permitID).Order("id ASC").Find(&badgeModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}

	badges := make([]*badge.TemporaryBadge, 0, len(badgeModels))
	for i := range badgeModels {
		b, err := r.mapper.ToDomain(&badgeModels[i])
		if err != nil {
			return nil, err
		}
		badges = append(badges, b)
	}
	return badges, nil
}

func (r *BadgeRepository) findOne(ctx context.Context, query string, arg interface{}) (*badge.TemporaryBadge, error) {
	var model models.TemporaryBadgeModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find badge: %w", err)
	}
	return r.mapper.ToDomain(&model)
}
