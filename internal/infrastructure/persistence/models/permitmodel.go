package models

import "gorm.io/datatypes"

type PermitModel struct {
	ID              uint           `gorm:"primaryKey"`
	Number          string         `gorm:"uniqueIndex;size:32;not null"`
	VisitorID       uint           `gorm:"not null;index"`
	PicID           uint           `gorm:"not null;index"`
	Purpose         string         `gorm:"type:text;not null"`
	VisitType       string         `gorm:"size:32;not null"`
	Location        string         `gorm:"size:64;not null;index"`
	ScheduledStart  int64          `gorm:"not null;index"`
	ScheduledEnd    int64          `gorm:"not null"`
	Equipment       datatypes.JSON `gorm:"type:json"`
	Status          string         `gorm:"size:20;not null;index"`
	AccessCode      *string        `gorm:"size:16"`
	CodeExpiresAt   *int64
	CodeConsumedAt  *int64
	AccessToken     *string `gorm:"uniqueIndex;size:64"`
	ActualCheckIn   *int64
	ActualCheckOut  *int64
	RejectionReason string `gorm:"size:1000"`
	Version         int    `gorm:"not null;default:1"`
	CreatedAt       int64  `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt       int64  `gorm:"autoUpdateTime:milli;not null"`

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (PermitModel) TableName() string {
	return "permits"
}

type PermitApprovalModel struct {
	ID         uint   `gorm:"primaryKey"`
	PermitID   uint   `gorm:"not null;uniqueIndex:idx_permit_approval_level"`
	Level      string `gorm:"size:32;not null;uniqueIndex:idx_permit_approval_level"`
	ApproverID uint   `gorm:"not null;index"`
	Status     string `gorm:"size:20;not null;index"`
	Comments   string `gorm:"size:2000"`
	ReviewedAt *int64
	CreatedAt  int64 `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt  int64 `gorm:"autoUpdateTime:milli;not null"`
}

func (PermitApprovalModel) TableName() string {
	return "permit_approvals"
}
