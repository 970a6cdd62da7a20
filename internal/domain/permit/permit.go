package permit

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"strings"
	"time"

	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
)

var (
	// ErrInvalidTransition is returned when the status graph has no edge to the target.
	ErrInvalidTransition = errors.New("invalid permit status transition")
	// ErrCredentialsRequired is returned when approving a permit that holds no code and token.
	ErrCredentialsRequired = errors.New("permit credentials must be issued before approval")
	// ErrCredentialsNotAllowed is returned when credentials are attached in a status that cannot hold them.
	ErrCredentialsNotAllowed = errors.New("permit cannot hold credentials in its current status")
)

const (
	maxPurposeLength  = 1000
	maxLocationLength = 64
)

// Permit is a visitor's request, and later grant, for physical access to one
// location during a scheduled window.
type Permit struct {
	id             uint
	number         string
	visitorID      uint
	picID          uint
	purpose        string
	visitType      vo.VisitType
	location       string
	scheduledStart time.Time
	scheduledEnd   time.Time
	equipment      []string
	status         vo.PermitStatus

	accessCode      string
	codeExpiresAt   *time.Time
	codeConsumedAt  *time.Time
	accessToken     string
	actualCheckIn   *time.Time
	actualCheckOut  *time.Time
	rejectionReason string

	version   int
	createdAt time.Time
	updatedAt time.Time

	// state last read from or written to storage, used for conditional writes
	persistedStatus  vo.PermitStatus
	persistedVersion int
}

// AccessData carries the credential and visit fields restored from storage.
type AccessData struct {
	AccessCode      string
	CodeExpiresAt   *time.Time
	CodeConsumedAt  *time.Time
	AccessToken     string
	ActualCheckIn   *time.Time
	ActualCheckOut  *time.Time
	RejectionReason string
}

func NewPermit(
	number string,
	visitorID, picID uint,
	purpose string,
	visitType vo.VisitType,
	location string,
	scheduledStart, scheduledEnd time.Time,
	equipment []string,
	now time.Time,
) (*Permit, error) {
	if number == "" {
		return nil, fmt.Errorf("permit number is required")
	}
	if visitorID == 0 {
		return nil, fmt.Errorf("visitor ID is required")
	}
	if picID == 0 {
		return nil, fmt.Errorf("PIC ID is required")
	}
	purpose = strings.TrimSpace(purpose)
	if purpose == "" {
		return nil, fmt.Errorf("purpose is required")
	}
	if len(purpose) > maxPurposeLength {
		return nil, fmt.Errorf("purpose exceeds maximum length of %d characters", maxPurposeLength)
	}
	if !visitType.IsValid() {
		return nil, fmt.Errorf("invalid visit type")
	}
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, fmt.Errorf("location is required")
	}
	if len(location) > maxLocationLength {
		return nil, fmt.Errorf("location exceeds maximum length of %d characters", maxLocationLength)
	}
	if scheduledStart.IsZero() || scheduledEnd.IsZero() {
		return nil, fmt.Errorf("scheduled window is required")
	}
	if !scheduledStart.Before(scheduledEnd) {
		return nil, fmt.Errorf("scheduled start must be before scheduled end")
	}

	return &Permit{
		number:         number,
		visitorID:      visitorID,
		picID:          picID,
		purpose:        purpose,
		visitType:      visitType,
		location:       location,
		scheduledStart: scheduledStart.UTC(),
		scheduledEnd:   scheduledEnd.UTC(),
		equipment:      cleanEquipment(equipment),
		status:         vo.StatusPendingPIC,
		version:        1,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

func ReconstructPermit(
	id uint,
	number string,
	visitorID, picID uint,
	purpose string,
	visitType vo.VisitType,
	location string,
	scheduledStart, scheduledEnd time.Time,
	equipment []string,
	status vo.PermitStatus,
	version int,
	createdAt, updatedAt time.Time,
	access *AccessData,
) (*Permit, error) {
	if id == 0 {
		return nil, fmt.Errorf("permit ID cannot be zero")
	}
	if number == "" {
		return nil, fmt.Errorf("permit number is required")
	}
	if !status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", status)
	}
	if equipment == nil {
		equipment = []string{}
	}

	p := &Permit{
		id:               id,
		number:           number,
		visitorID:        visitorID,
		picID:            picID,
		purpose:          purpose,
		visitType:        visitType,
		location:         location,
		scheduledStart:   scheduledStart,
		scheduledEnd:     scheduledEnd,
		equipment:        equipment,
		status:           status,
		version:          version,
		createdAt:        createdAt,
		updatedAt:        updatedAt,
		persistedStatus:  status,
		persistedVersion: version,
	}
	if access != nil {
		p.accessCode = access.AccessCode
		p.codeExpiresAt = access.CodeExpiresAt
		p.codeConsumedAt = access.CodeConsumedAt
		p.accessToken = access.AccessToken
		p.actualCheckIn = access.ActualCheckIn
		p.actualCheckOut = access.ActualCheckOut
		p.rejectionReason = access.RejectionReason
	}
	return p, nil
}

func cleanEquipment(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func (p *Permit) ID() uint                  { return p.id }
func (p *Permit) Number() string            { return p.number }
func (p *Permit) VisitorID() uint           { return p.visitorID }
func (p *Permit) PicID() uint               { return p.picID }
func (p *Permit) Purpose() string           { return p.purpose }
func (p *Permit) VisitType() vo.VisitType   { return p.visitType }
func (p *Permit) Location() string          { return p.location }
func (p *Permit) ScheduledStart() time.Time { return p.scheduledStart }
func (p *Permit) ScheduledEnd() time.Time   { return p.scheduledEnd }
func (p *Permit) Status() vo.PermitStatus   { return p.status }
func (p *Permit) AccessCode() string        { return p.accessCode }
func (p *Permit) CodeExpiresAt() *time.Time { return p.codeExpiresAt }
func (p *Permit) CodeConsumedAt() *time.Time {
	return p.codeConsumedAt
}
func (p *Permit) AccessToken() string        { return p.accessToken }
func (p *Permit) ActualCheckIn() *time.Time  { return p.actualCheckIn }
func (p *Permit) ActualCheckOut() *time.Time { return p.actualCheckOut }
func (p *Permit) RejectionReason() string    { return p.rejectionReason }
func (p *Permit) Version() int               { return p.version }
func (p *Permit) CreatedAt() time.Time       { return p.createdAt }
func (p *Permit) UpdatedAt() time.Time       { return p.updatedAt }

// Equipment returns a copy of the declared equipment list.
func (p *Permit) Equipment() []string {
	out := make([]string, len(p.equipment))
	copy(out, p.equipment)
	return out
}

// PersistedStatus is the status the stored row is expected to hold.
func (p *Permit) PersistedStatus() vo.PermitStatus { return p.persistedStatus }

// PersistedVersion is the version the stored row is expected to hold.
func (p *Permit) PersistedVersion() int { return p.persistedVersion }

// SetID is called by the repository after the first insert.
func (p *Permit) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("permit ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("permit ID cannot be zero")
	}
	p.id = id
	return nil
}

// MarkPersisted records that the current state has been written.
func (p *Permit) MarkPersisted() {
	p.persistedStatus = p.status
	p.persistedVersion = p.version
}

// Snapshot is a copy of a permit's state that Restore can return it to.
type Snapshot struct {
	state Permit
}

// Snapshot captures the current state, including the persisted markers.
func (p *Permit) Snapshot() Snapshot {
	return Snapshot{state: *p}
}

// Restore discards every change made since s was taken.
func (p *Permit) Restore(s Snapshot) {
	*p = s.state
}

// TransitionTo moves the permit along one edge of the status graph and updates
// the fields coupled to the target status. No field changes when the edge is invalid.
func (p *Permit) TransitionTo(target vo.PermitStatus, at time.Time, reason string) error {
	if !p.status.CanTransitionTo(target) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.status, target)
	}

	switch target {
	case vo.StatusApproved:
		if p.accessCode == "" || p.accessToken == "" || p.codeExpiresAt == nil {
			return ErrCredentialsRequired
		}
	case vo.StatusActive:
		p.actualCheckIn = &at
		p.codeConsumedAt = &at
	case vo.StatusCompleted:
		p.actualCheckOut = &at
		p.clearCredentials()
	case vo.StatusRejected, vo.StatusCancelled, vo.StatusExpired:
		p.rejectionReason = strings.TrimSpace(reason)
		p.clearCredentials()
	}

	p.status = target
	p.touch(at)
	return nil
}

// AttachCredentials stores a freshly issued code and token. Only a permit about
// to be approved can receive them.
func (p *Permit) AttachCredentials(code, token string, expiresAt, at time.Time) error {
	if p.status != vo.StatusPendingManager {
		return fmt.Errorf("%w: %s", ErrCredentialsNotAllowed, p.status)
	}
	if code == "" || token == "" {
		return fmt.Errorf("code and token are required")
	}
	p.accessCode = code
	p.accessToken = token
	p.codeExpiresAt = &expiresAt
	p.codeConsumedAt = nil
	p.touch(at)
	return nil
}

// ReplaceCode swaps the one-time code of an approved permit, keeping its token.
func (p *Permit) ReplaceCode(code string, expiresAt, at time.Time) error {
	if p.status != vo.StatusApproved {
		return fmt.Errorf("%w: %s", ErrCredentialsNotAllowed, p.status)
	}
	if code == "" {
		return fmt.Errorf("code is required")
	}
	p.accessCode = code
	p.codeExpiresAt = &expiresAt
	p.codeConsumedAt = nil
	p.touch(at)
	return nil
}

// VerifyCode reports whether code unlocks this permit at instant now: the permit
// is APPROVED, the code is unconsumed and unexpired and matches.
func (p *Permit) VerifyCode(code string, now time.Time) bool {
	if p.status != vo.StatusApproved || p.accessCode == "" || p.codeConsumedAt != nil {
		return false
	}
	if p.codeExpiresAt == nil || !now.Before(*p.codeExpiresAt) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(p.accessCode), []byte(code)) == 1
}

// CheckInOpensAt is the earliest instant a check-in is accepted.
func (p *Permit) CheckInOpensAt(lead time.Duration) time.Time {
	return p.scheduledStart.Add(-lead)
}

// IsPastScheduledEnd reports whether the visit window has closed.
func (p *Permit) IsPastScheduledEnd(now time.Time) bool {
	return !now.Before(p.scheduledEnd)
}

// IsOwnedBy reports whether the person is the requesting visitor.
func (p *Permit) IsOwnedBy(personID uint) bool {
	return personID != 0 && p.visitorID == personID
}

func (p *Permit) clearCredentials() {
	p.accessCode = ""
	p.accessToken = ""
	p.codeExpiresAt = nil
}

func (p *Permit) touch(at time.Time) {
	p.version++
	p.updatedAt = at
}
