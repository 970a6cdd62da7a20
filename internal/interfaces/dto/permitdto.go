package dto

import "time"

type SubmitPermitRequest struct {
	PicID          uint      `json:"pic_id" binding:"required"`
	Purpose        string    `json:"purpose" binding:"required,max=500"`
	VisitType      string    `json:"visit_type" binding:"required"`
	Location       string    `json:"location" binding:"required,max=100"`
	ScheduledStart time.Time `json:"scheduled_start" binding:"required"`
	ScheduledEnd   time.Time `json:"scheduled_end" binding:"required"`
	Equipment      []string  `json:"equipment"`
}

type CancelPermitRequest struct {
	Reason string `json:"reason" binding:"max=255"`
}

// ReviewRequest is shared by both approval tiers. Approved is a pointer so an
// explicit false is told apart from a missing field.
type ReviewRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Comments string `json:"comments" binding:"max=1000"`
}
