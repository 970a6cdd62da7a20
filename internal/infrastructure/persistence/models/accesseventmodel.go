package models

type AccessEventModel struct {
	ID         string `gorm:"primaryKey;size:26"`
	PermitID   *uint  `gorm:"index"`
	PersonID   *uint  `gorm:"index"`
	EventType  string `gorm:"size:16;not null;index:idx_access_event_type_outcome"`
	Location   string `gorm:"size:64;index"`
	Outcome    string `gorm:"size:16;not null;index:idx_access_event_type_outcome"`
	OccurredAt int64  `gorm:"not null;index"`
	Remarks    string `gorm:"size:500"`
	DeviceID   string `gorm:"size:64"`
}

func (AccessEventModel) TableName() string {
	return "access_events"
}
