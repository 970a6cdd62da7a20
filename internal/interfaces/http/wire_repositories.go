package http

import (
	"gorm.io/gorm"

	"github.com/orris-inc/permitgate/internal/infrastructure/repository"
)

// repositories holds all repository instances used by the application.
type repositories struct {
	permitRepo   *repository.PermitRepository
	approvalRepo *repository.ApprovalRepository
	badgeRepo    *repository.BadgeRepository
	eventRepo    *repository.AccessEventRepository
	inboxRepo    *repository.InboxRepository
}

// newRepositories creates all repository instances from the database connection.
func newRepositories(db *gorm.DB) *repositories {
	return &repositories{
		permitRepo:   repository.NewPermitRepository(db),
		approvalRepo: repository.NewApprovalRepository(db),
		badgeRepo:    repository.NewBadgeRepository(db),
		eventRepo:    repository.NewAccessEventRepository(db),
		inboxRepo:    repository.NewInboxRepository(db),
	}
}
