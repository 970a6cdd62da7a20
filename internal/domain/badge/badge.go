package badge

import (
	"fmt"
	"strings"
	"time"
)

const (
	CardNumberPrefix = "TMP-"
	RFIDTagPrefix    = "RF-"
)

// TemporaryBadge is the physical RFID card handed to a checked-in visitor.
type TemporaryBadge struct {
	id                 uint
	permitID           uint
	cardNumber         string
	rfidTag            string
	issuedAt           time.Time
	expiresAt          time.Time
	active             bool
	deactivatedAt      *time.Time
	deactivationReason string
}

func NewTemporaryBadge(permitID uint, cardNumber, rfidTag string, issuedAt, expiresAt time.Time) (*TemporaryBadge, error) {
	if permitID == 0 {
		return nil, fmt.Errorf("permit ID is required")
	}
	if !strings.HasPrefix(cardNumber, CardNumberPrefix) {
		return nil, fmt.Errorf("card number must start with %s", CardNumberPrefix)
	}
	if !strings.HasPrefix(rfidTag, RFIDTagPrefix) {
		return nil, fmt.Errorf("RFID tag must start with %s", RFIDTagPrefix)
	}
	if !issuedAt.Before(expiresAt) {
		return nil, fmt.Errorf("badge would expire before it is issued")
	}
	return &TemporaryBadge{
		permitID:   permitID,
		cardNumber: cardNumber,
		rfidTag:    rfidTag,
		issuedAt:   issuedAt,
		expiresAt:  expiresAt,
		active:     true,
	}, nil
}

func ReconstructTemporaryBadge(
	id, permitID uint,
	cardNumber, rfidTag string,
	issuedAt, expiresAt time.Time,
	active bool,
	deactivatedAt *time.Time,
	deactivationReason string,
) (*TemporaryBadge, error) {
	if id == 0 {
		return nil, fmt.Errorf("badge ID cannot be zero")
	}
	return &TemporaryBadge{
		id:                 id,
		permitID:           permitID,
		cardNumber:         cardNumber,
		rfidTag:            rfidTag,
		issuedAt:           issuedAt,
		expiresAt:          expiresAt,
		active:             active,
		deactivatedAt:      deactivatedAt,
		deactivationReason: deactivationReason,
	}, nil
}

func (b *TemporaryBadge) ID() uint                   { return b.id }
func (b *TemporaryBadge) PermitID() uint             { return b.permitID }
func (b *TemporaryBadge) CardNumber() string         { return b.cardNumber }
func (b *TemporaryBadge) RFIDTag() string            { return b.rfidTag }
func (b *TemporaryBadge) IssuedAt() time.Time        { return b.issuedAt }
func (b *TemporaryBadge) ExpiresAt() time.Time       { return b.expiresAt }
func (b *TemporaryBadge) IsActive() bool             { return b.active }
func (b *TemporaryBadge) DeactivatedAt() *time.Time  { return b.deactivatedAt }
func (b *TemporaryBadge) DeactivationReason() string { return b.deactivationReason }

func (b *TemporaryBadge) SetID(id uint) error {
	if b.id != 0 {
		return fmt.Errorf("badge ID is already set")
	}
	b.id = id
	return nil
}

// IsExpired reports whether the badge has passed its expiry at now.
func (b *TemporaryBadge) IsExpired(now time.Time) bool {
	return !now.Before(b.expiresAt)
}

// IsUsable reports whether the badge may open doors at now.
func (b *TemporaryBadge) IsUsable(now time.Time) bool {
	return b.active && !b.IsExpired(now)
}

// Deactivate switches the badge off. It returns false when it was already inactive.
func (b *TemporaryBadge) Deactivate(reason string, at time.Time) bool {
	if !b.active {
		return false
	}
	b.active = false
	b.deactivatedAt = &at
	b.deactivationReason = strings.TrimSpace(reason)
	return true
}
