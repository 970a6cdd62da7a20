package models

type InboxItemModel struct {
	ID          uint   `gorm:"primaryKey"`
	RecipientID uint   `gorm:"not null;index:idx_inbox_recipient_read"`
	Kind        string `gorm:"size:32;not null"`
	Subject     string `gorm:"size:255;not null"`
	Body        string `gorm:"type:text;not null"`
	PermitID    uint   `gorm:"index"`
	ReadAt      *int64 `gorm:"index:idx_inbox_recipient_read"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null;index"`
}

func (InboxItemModel) TableName() string {
	return "inbox_items"
}
