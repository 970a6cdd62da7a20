package models

type TemporaryBadgeModel struct {
	ID         uint   `gorm:"primaryKey"`
	PermitID   uint   `gorm:"not null;index"`
	CardNumber string `gorm:"uniqueIndex;size:32;not null"`
	RFIDTag    string `gorm:"column:rfid_tag;uniqueIndex;size:32;not null"`
	// ActivePermitID mirrors PermitID while the badge is active and is NULL
	// afterwards, so the unique index allows one active badge per permit.
	ActivePermitID     *uint `gorm:"uniqueIndex"`
	IssuedAt           int64 `gorm:"not null"`
	ExpiresAt          int64 `gorm:"not null"`
	Active             bool  `gorm:"not null;default:true;index"`
	DeactivatedAt      *int64
	DeactivationReason string `gorm:"size:255"`
}

func (TemporaryBadgeModel) TableName() string {
	return "temporary_badges"
}
