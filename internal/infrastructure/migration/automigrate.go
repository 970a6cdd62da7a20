package migration

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/orris-inc/permitgate/internal/infrastructure/persistence/models"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

// AutoMigrateModels lists every persistence model owned by the service.
func AutoMigrateModels() []interface{} {
	return []interface{}{
		&models.PermitModel{},
		&models.PermitApprovalModel{},
		&models.TemporaryBadgeModel{},
		&models.AccessEventModel{},
		&models.InboxItemModel{},
	}
}

// GormAutoMigrateStrategy derives the schema from the persistence models. It is
// used for SQLite, where the MySQL scripts do not apply.
type GormAutoMigrateStrategy struct {
	logger logger.Interface
}

func NewGormAutoMigrateStrategy() Strategy {
	return &GormAutoMigrateStrategy{
		logger: logger.NewLogger().With("component", "migration.gorm"),
	}
}

func (s *GormAutoMigrateStrategy) Migrate(db *gorm.DB) error {
	modelList := AutoMigrateModels()
	s.logger.Infow("starting gorm auto migration", "models", len(modelList))
	if err := db.AutoMigrate(modelList...); err != nil {
		return fmt.Errorf("auto migration failed: %w", err)
	}
	return nil
}

func (s *GormAutoMigrateStrategy) Name() string {
	return "gorm_auto_migrate"
}
