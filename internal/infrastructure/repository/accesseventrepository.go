package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/mappers"
	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/permitgate/internal/shared/db"
)

// AccessEventRepository only inserts and reads; it has no update or delete path.
type AccessEventRepository struct {
	db     *gorm.DB
	mapper mappers.AccessEventMapper
}

func NewAccessEventRepository(db *gorm.DB) *AccessEventRepository {
	return &AccessEventRepository{
		db:     db,
		mapper: mappers.NewAccessEventMapper(),
	}
}

func (r *AccessEventRepository) Append(ctx context.Context, e *accesslog.Event) error {
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Create(r.mapper.ToModel(e)).Error; err != nil {
		return fmt.Errorf("failed to append access event: %w", err)
	}
	return nil
}

func (r *AccessEventRepository) List(ctx context.Context, filter accesslog.EventFilter) ([]*accesslog.Event, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.AccessEventModel{}).
		Scopes(db.Between("occurred_at", millisOrZero(filter.From), millisOrZero(filter.To)))

	if filter.PermitID != nil {
		query = query.Where("permit_id = ?", *filter.PermitID)
	}
	if filter.Location != "" {
		query = query.Where("location = ?", filter.Location)
	}
	if filter.Type != nil {
		query = query.Where("event_type = ?", string(*filter.Type))
	}
	if filter.Outcome != nil {
		query = query.Where("outcome = ?", string(*filter.Outcome))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count access events: %w", err)
	}

	var eventModels []models.AccessEventModel
	if err := query.Order("occurred_at DESC").Order("id DESC").
		Scopes(db.Paginate(filter.Page, filter.PageSize)).
		Find(&eventModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list access events: %w", err)
	}

	events := make([]*accesslog.Event, 0, len(eventModels))
	for i := range eventModels {
		e, err := r.mapper.ToDomain(&eventModels[i])
		if err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, nil
}

func (r *AccessEventRepository) CountByTypeAndOutcome(ctx context.Context, eventType accesslog.EventType, outcome *accesslog.Outcome, from, to time.Time) (int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.AccessEventModel{}).
		Where("event_type = ?", string(eventType)).
		Scopes(db.Between("occurred_at", millisOrZero(from), millisOrZero(to)))
	if outcome != nil {
		query = query.Where("outcome = ?", string(*outcome))
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count access events: %w", err)
	}
	return count, nil
}

func millisOrZero(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}
