package dto

import (
	"time"

	"github.com/orris-inc/permitgate/internal/domain/approval"
	"github.com/orris-inc/permitgate/internal/domain/permit"
)

type PermitDTO struct {
	ID              uint       `json:"id"`
	Number          string     `json:"number"`
	VisitorID       uint       `json:"visitor_id"`
	PicID           uint       `json:"pic_id"`
	Purpose         string     `json:"purpose"`
	VisitType       string     `json:"visit_type"`
	VisitTypeName   string     `json:"visit_type_name"`
	Location        string     `json:"location"`
	ScheduledStart  time.Time  `json:"scheduled_start"`
	ScheduledEnd    time.Time  `json:"scheduled_end"`
	Equipment       []string   `json:"equipment"`
	Status          string     `json:"status"`
	AccessCode      string     `json:"access_code,omitempty"`
	CodeExpiresAt   *time.Time `json:"code_expires_at,omitempty"`
	AccessToken     string     `json:"access_token,omitempty"`
	QRCode          string     `json:"qr_code,omitempty"` // base64 PNG of AccessToken
	ActualCheckIn   *time.Time `json:"actual_check_in"`
	ActualCheckOut  *time.Time `json:"actual_check_out"`
	RejectionReason string     `json:"rejection_reason,omitempty"`
	Version         int        `json:"version"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToPermitDTO converts a permit. Credentials are only included for the visitor
// who owns them.
func ToPermitDTO(p *permit.Permit, includeCredentials bool) *PermitDTO {
	if p == nil {
		return nil
	}
	out := &PermitDTO{
		ID:              p.ID(),
		Number:          p.Number(),
		VisitorID:       p.VisitorID(),
		PicID:           p.PicID(),
		Purpose:         p.Purpose(),
		VisitType:       string(p.VisitType()),
		VisitTypeName:   p.VisitType().DisplayName(),
		Location:        p.Location(),
		ScheduledStart:  p.ScheduledStart(),
		ScheduledEnd:    p.ScheduledEnd(),
		Equipment:       p.Equipment(),
		Status:          p.Status().String(),
		ActualCheckIn:   p.ActualCheckIn(),
		ActualCheckOut:  p.ActualCheckOut(),
		RejectionReason: p.RejectionReason(),
		Version:         p.Version(),
		CreatedAt:       p.CreatedAt(),
		UpdatedAt:       p.UpdatedAt(),
	}
	if includeCredentials {
		out.AccessCode = p.AccessCode()
		out.CodeExpiresAt = p.CodeExpiresAt()
		out.AccessToken = p.AccessToken()
	}
	return out
}

func ToPermitDTOList(permits []*permit.Permit, viewerID uint) []*PermitDTO {
	out := make([]*PermitDTO, 0, len(permits))
	for _, p := range permits {
		out = append(out, ToPermitDTO(p, p.IsOwnedBy(viewerID)))
	}
	return out
}

type ApprovalDTO struct {
	ID         uint       `json:"id"`
	PermitID   uint       `json:"permit_id"`
	Level      string     `json:"level"`
	ApproverID uint       `json:"approver_id"`
	Status     string     `json:"status"`
	Comments   string     `json:"comments,omitempty"`
	ReviewedAt *time.Time `json:"reviewed_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func ToApprovalDTO(r *approval.Record) *ApprovalDTO {
	if r == nil {
		return nil
	}
	return &ApprovalDTO{
		ID:         r.ID(),
		PermitID:   r.PermitID(),
		Level:      string(r.Level()),
		ApproverID: r.ApproverID(),
		Status:     string(r.Status()),
		Comments:   r.Comments(),
		ReviewedAt: r.ReviewedAt(),
		CreatedAt:  r.CreatedAt(),
	}
}

func ToApprovalDTOList(records []*approval.Record) []*ApprovalDTO {
	out := make([]*ApprovalDTO, 0, len(records))
	for _, r := range records {
		out = append(out, ToApprovalDTO(r))
	}
	return out
}
