package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/permitgate/internal/shared/db"
)

// allowedPermitOrderByFields defines the whitelist of allowed ORDER BY fields
// to prevent SQL injection attacks.
var allowedPermitOrderByFields = map[string]bool{
	"id":              true,
	"number":          true,
	"status":          true,
	"location":        true,
	"scheduled_start": true,
	"scheduled_end":   true,
	"actual_check_in": true,
	"created_at":      true,
	"updated_at":      true,
}

type PermitRepository struct {
	db     *gorm.DB
	mapper mappers.PermitMapper
}

func NewPermitRepository(db *gorm.DB) *PermitRepository {
	return &PermitRepository{
		db:     db,
		mapper: mappers.NewPermitMapper(),
	}
}

func (r *PermitRepository) Create(ctx context.Context, p *permit.Permit) error {
	model, err := r.mapper.ToModel(p)
	if err != nil {
		return err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create permit: %w", err)
	}
	if err := p.SetID(model.ID); err != nil {
		return err
	}
	p.MarkPersisted()
	return nil
}

// ConditionalUpdate writes every mutable column in a single statement guarded by
// the status and version the permit was loaded with.
func (r *PermitRepository) ConditionalUpdate(ctx context.Context, p *permit.Permit) (bool, error) {
	model, err := r.mapper.ToModel(p)
	if err != nil {
		return false, err
	}
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.PermitModel{}).
		Where("id = ? AND status = ? AND version = ?", p.ID(), p.PersistedStatus().String(), p.PersistedVersion()).
		Updates(map[string]interface{}{
			"status":           model.Status,
			"access_code":      model.AccessCode,
			"code_expires_at":  model.CodeExpiresAt,
			"code_consumed_at": model.CodeConsumedAt,
			"access_token":     model.AccessToken,
			"actual_check_in":  model.ActualCheckIn,
			"actual_check_out": model.ActualCheckOut,
			"rejection_reason": model.RejectionReason,
			"version":          model.Version,
			"updated_at":       model.UpdatedAt,
		})
	if result.Error != nil {
		return false, fmt.Errorf("failed to update permit: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return false, nil
	}

	p.MarkPersisted()
	return true, nil
}

func (r *PermitRepository) GetByID(ctx context.Context, permitID uint) (*permit.Permit, error) {
	return r.findOne(ctx, "id = ?", permitID)
}

func (r *PermitRepository) GetByNumber(ctx context.Context, number string) (*permit.Permit, error) {
	return r.findOne(ctx, "number = ?", number)
}

func (r *PermitRepository) GetByAccessToken(ctx context.Context, token string) (*permit.Permit, error) {
	if token == "" {
		return nil, nil
	}
	return r.findOne(ctx, "access_token = ?", token)
}

func (r *PermitRepository) findOne(ctx context.Context, query string, arg interface{}) (*permit.Permit, error) {
	var model models.PermitModel
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Where(query, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find permit: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *PermitRepository) List(ctx context.Context, filter permit.PermitFilter) ([]*permit.Permit, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.PermitModel{})

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.VisitorID != nil {
		query = query.Where("visitor_id = ?", *filter.VisitorID)
	}
	if filter.PicID != nil {
		query = query.Where("pic_id = ?", *filter.PicID)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count permits: %w", err)
	}

	sortBy := strings.ToLower(filter.SortBy)
	if sortBy != "" && allowedPermitOrderByFields[sortBy] {
		order := strings.ToUpper(filter.SortOrder)
		if order != "ASC" && order != "DESC" {
			order = "DESC"
		}
		query = query.Order(sortBy + " " + order)
	} else {
		query = query.Order("created_at DESC").Order("id DESC")
	}

	var permitModels []models.PermitModel
	if err := query.Scopes(db.Paginate(filter.Page, filter.PageSize)).Find(&permitModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list permits: %w", err)
	}

	permits := make([]*permit.Permit, 0, len(permitModels))
	for i := range permitModels {
		p, err := r.mapper.ToDomain(&permitModels[i])
		if err != nil {
			return nil, 0, err
		}
		permits = append(permits, p)
	}
	return permits, total, nil
}

func (r *PermitRepository) CountByStatus(ctx context.Context, status vo.PermitStatus) (int64, error) {
	var count int64
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Model(&models.PermitModel{}).Where("status = ?", status.String()).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count permits: %w", err)
	}
	return count, nil
}
