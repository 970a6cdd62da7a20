package approval

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrAlreadyResolved is returned when resolving a record that is no longer pending.
var ErrAlreadyResolved = errors.New("approval record is already resolved")

type Level string

const (
	LevelPICReview       Level = "PIC_REVIEW"
	LevelManagerApproval Level = "MANAGER_APPROVAL"
)

func (l Level) IsValid() bool {
	return l == LevelPICReview || l == LevelManagerApproval
}

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

func (s Status) IsValid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

const maxCommentsLength = 2000

// Record is one approver's decision at one level of a permit's approval chain.
type Record struct {
	id         uint
	permitID   uint
	level      Level
	approverID uint
	status     Status
	comments   string
	reviewedAt *time.Time
	createdAt  time.Time
	updatedAt  time.Time
}

func NewRecord(permitID uint, level Level, approverID uint, now time.Time) (*Record, error) {
	if permitID == 0 {
		return nil, fmt.Errorf("permit ID is required")
	}
	if !level.IsValid() {
		return nil, fmt.Errorf("invalid approval level: %s", level)
	}
	if approverID == 0 {
		return nil, fmt.Errorf("approver ID is required")
	}
	return &Record{
		permitID:   permitID,
		level:      level,
		approverID: approverID,
		status:     StatusPending,
		createdAt:  now,
		updatedAt:  now,
	}, nil
}

func ReconstructRecord(
	id, permitID uint,
	level Level,
	approverID uint,
	status Status,
	comments string,
	reviewedAt *time.Time,
	createdAt, updatedAt time.Time,
) (*Record, error) {
	if id == 0 {
		return nil, fmt.Errorf("approval record ID cannot be zero")
	}
	if !level.IsValid() {
		return nil, fmt.Errorf("invalid approval level: %s", level)
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid approval status: %s", status)
	}
	return &Record{
		id:         id,
		permitID:   permitID,
		level:      level,
		approverID: approverID,
		status:     status,
		comments:   comments,
		reviewedAt: reviewedAt,
		createdAt:  createdAt,
		updatedAt:  updatedAt,
	}, nil
}

func (r *Record) ID() uint               { return r.id }
func (r *Record) PermitID() uint         { return r.permitID }
func (r *Record) Level() Level           { return r.level }
func (r *Record) ApproverID() uint       { return r.approverID }
func (r *Record) Status() Status         { return r.status }
func (r *Record) Comments() string       { return r.comments }
func (r *Record) ReviewedAt() *time.Time { return r.reviewedAt }
func (r *Record) CreatedAt() time.Time   { return r.createdAt }
func (r *Record) UpdatedAt() time.Time   { return r.updatedAt }
func (r *Record) IsPending() bool        { return r.status == StatusPending }

func (r *Record) SetID(id uint) error {
	if r.id != 0 {
		return fmt.Errorf("approval record ID is already set")
	}
	r.id = id
	return nil
}

// Resolve records the decision. The acting approver replaces the assigned one.
func (r *Record) Resolve(approved bool, approverID uint, comments string, at time.Time) error {
	if r.status != StatusPending {
		return ErrAlreadyResolved
	}
	if approverID == 0 {
		return fmt.Errorf("approver ID is required")
	}
	comments = strings.TrimSpace(comments)
	if len(comments) > maxCommentsLength {
		return fmt.Errorf("comments exceed maximum length of %d characters", maxCommentsLength)
	}

	r.status = StatusRejected
	if approved {
		r.status = StatusApproved
	}
	r.approverID = approverID
	r.comments = comments
	r.reviewedAt = &at
	r.updatedAt = at
	return nil
}
