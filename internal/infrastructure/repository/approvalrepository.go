package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/permitgate/internal/domain/approval"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/permitgate/internal/shared/db"
)

type ApprovalRepository struct {
	db     *gorm.DB
	mapper mappers.ApprovalMapper
}

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository {
	return &ApprovalRepository{
		db:     db,
		mapper: mappers.NewApprovalMapper(),
	}
}

func (r *ApprovalRepository) Create(ctx context.Context, rec *approval.Record) error {
	model := r.mapper.ToModel(rec)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create approval record: %w", err)
	}
	return rec.SetID(model.ID)
}

func (r *ApprovalRepository) Resolve(ctx context.Context, rec *approval.Record) (bool, error) {
	model := r.mapper.ToModel(rec)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.PermitApprovalModel{}).
		Where("id = ? AND status = ?", rec.ID(), string(approval.StatusPending)).
		Updates(map[string]interface{}{
			"status":      model.Status,
			"approver_id": model.ApproverID,
			"comments":    model.Comments,
			"reviewed_at": model.ReviewedAt,
			"updated_at":  model.UpdatedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to resolve approval record: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *ApprovalRepository) GetByPermitAndLevel(ctx context.Context, permitID uint, level approval.Level) (*approval.Record, error) {
	var model models.PermitApprovalModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("permit_id = ? AND level = ?", permitID, string(level)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find approval record: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *ApprovalRepository) ListByPermit(ctx context.Context, permitID uint) ([]*approval.Record, error) {
	var approvalModels []models.PermitApprovalModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("permit_id = ?", permitID).Order("id ASC").Find(&approvalModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list approval records: %w", err)
	}
	return r.toDomainList(approvalModels)
}

func (r *ApprovalRepository) ListPendingByApprover(ctx context.Context, approverID uint) ([]*approval.Record, error) {
	var approvalModels []models.PermitApprovalModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where("approver_id = ? AND status = ?", approverID, string(approval.StatusPending)).
		Order("created_at ASC").
		Find(&approvalModels).Error; err != nil {
		return nil, fmt.Errorf("failed to list pending approvals: %w", err)
	}
	return r.toDomainList(approvalModels)
}

func (r *ApprovalRepository) CountPendingByApprover(ctx context.Context, level approval.Level, approverIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(approverIDs))
	if len(approverIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		ApproverID uint
		Total      int64
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.PermitApprovalModel{}).
		Select("approver_id, COUNT(*) AS total").
		Where("level = ? AND status = ? AND approver_id IN ?", string(level), string(approval.StatusPending), approverIDs).
		Group("approver_id").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending approvals: %w", err)
	}

	for _, id := range approverIDs {
		counts[id] = 0
	}
	for _, row := range rows {
		counts[row.ApproverID] = row.Total
	}
	return counts, nil
}

func (r *ApprovalRepository) toDomainList(approvalModels []models.PermitApprovalModel) ([]*approval.Record, error) {
	records := make([]*approval.Record, 0, len(approvalModels))
	for i := range approvalModels {
		rec, err := r.mapper.ToDomain(&approvalModels[i])
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}
