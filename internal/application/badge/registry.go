// Package badge manages the temporary RFID badges handed out at check-in.
package badge

import (
	"context"
	"fmt"

	"github.com/orris-inc/permitgate/internal/domain/badge"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/db"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/id"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

const (
	cardDigits       = 10
	rfidHexDigits    = 12
	maxIssueAttempts = 5

	ReasonExpired    = "expired"
	ReasonCheckedOut = "checked out"
)

type Registry struct {
	badges  badge.Repository
	permits permit.QueryRepository
	txMgr   *db.TransactionManager
	clock   biztime.Clock
	logger  logger.Interface
}

func NewRegistry(
	badges badge.Repository,
	permits permit.QueryRepository,
	txMgr *db.TransactionManager,
	clock biztime.Clock,
	logger logger.Interface,
) *Registry {
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	return &Registry{
		badges:  badges,
		permits: permits,
		txMgr:   txMgr,
		clock:   clock,
		logger:  logger,
	}
}

// Issue returns the active badge of p, creating one if there is none. The badge
// expires at the end of the scheduled visit.
func (r *Registry) Issue(ctx context.Context, p *permit.Permit) (*badge.TemporaryBadge, error) {
	existing, err := r.badges.GetActiveByPermitID(ctx, p.ID())
	if err != nil {
		return nil, fmt.Errorf("failed to look up active badge: %w", err)
	}
	if existing != nil {
		return existing, nil
	}

	for attempt := 1; attempt <= maxIssueAttempts; attempt++ {
		b, err := r.newBadge(p)
		if err != nil {
			return nil, err
		}

		err = r.badges.Create(ctx, b)
		if err == nil {
			r.logger.Infow("temporary badge issued",
				"permit_id", p.ID(),
				"badge_id", b.ID(),
				"card_number", b.CardNumber(),
			)
			return b, nil
		}
		if !errors.IsDuplicateError(err) {
			return nil, fmt.Errorf("failed to create badge: %w", err)
		}

		// either an identifier collided or another caller issued first
		existing, lookupErr := r.badges.GetActiveByPermitID(ctx, p.ID())
		if lookupErr != nil {
			return nil, fmt.Errorf("failed to look up active badge: %w", lookupErr)
		}
		if existing != nil {
			return existing, nil
		}
		r.logger.Warnw("badge identifier collision, retrying", "permit_id", p.ID(), "attempt", attempt)
	}
	return nil, errors.NewInternalError("failed to issue badge")
}

func (r *Registry) newBadge(p *permit.Permit) (*badge.TemporaryBadge, error) {
	card, err := id.GenerateDigits(cardDigits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate card number: %w", err)
	}
	tag, err := id.GenerateHex(rfidHexDigits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RFID tag: %w", err)
	}
	b, err := badge.NewTemporaryBadge(p.ID(), badge.CardNumberPrefix+card, badge.RFIDTagPrefix+tag, r.clock.Now(), p.ScheduledEnd())
	if err != nil {
		return nil, errors.NewInvalidStateError(err.Error())
	}
	return b, nil
}

// Deactivate switches a badge off. Deactivating an inactive badge is a no-op.
func (r *Registry) Deactivate(ctx context.Context, badgeID uint, reason string) error {
	b, err := r.badges.GetByID(ctx, badgeID)
	if err != nil {
		return fmt.Errorf("failed to get badge: %w", err)
	}
	if b == nil {
		return errors.NewNotFoundError("badge not found")
	}
	_, err = r.deactivate(ctx, b, reason)
	return err
}

// DeactivateForPermit switches off the active badge of a permit, returning it.
// It returns nil when the permit has no active badge.
func (r *Registry) DeactivateForPermit(ctx context.Context, permitID uint, reason string) (*badge.TemporaryBadge, error) {
	b, err := r.badges.GetActiveByPermitID(ctx, permitID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active badge: %w", err)
	}
	if b == nil {
		return nil, nil
	}
	if _, err := r.deactivate(ctx, b, reason); err != nil {
		return nil, err
	}
	return b, nil
}

func (r *Registry) deactivate(ctx context.Context, b *badge.TemporaryBadge, reason string) (bool, error) {
	if !b.Deactivate(reason, r.clock.Now()) {
		return false, nil
	}
	changed, err := r.badges.Deactivate(ctx, b)
	if err != nil {
		return false, fmt.Errorf("failed to deactivate badge: %w", err)
	}
	if changed {
		r.logger.Infow("temporary badge deactivated", "badge_id", b.ID(), "permit_id", b.PermitID(), "reason", reason)
	}
	return changed, nil
}

// Lookup resolves an RFID tag to a usable badge. A badge found past its expiry
// is deactivated on the spot. The returned badge is nil when the tag is
// unknown; usable is false when the badge may not open doors.
func (r *Registry) Lookup(ctx context.Context, rfidTag string) (b *badge.TemporaryBadge, usable bool, err error) {
	b, err = r.badges.GetByRFIDTag(ctx, rfidTag)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get badge: %w", err)
	}
	if b == nil || !b.IsActive() {
		return b, false, nil
	}
	if b.IsExpired(r.clock.Now()) {
		if _, err := r.deactivate(ctx, b, ReasonExpired); err != nil {
			return nil, false, err
		}
		return b, false, nil
	}
	return b, true, nil
}

// IsValid reports whether rfidTag belongs to a usable badge.
func (r *Registry) IsValid(ctx context.Context, rfidTag string) (bool, error) {
	_, usable, err := r.Lookup(ctx, rfidTag)
	return usable, err
}

// Reissue replaces a lost or damaged badge of an on-site visitor: the old badge
// is switched off and a new one issued in the same transaction.
func (r *Registry) Reissue(ctx context.Context, badgeID uint, reason string) (*badge.TemporaryBadge, *permit.Permit, error) {
	var (
		replacement *badge.TemporaryBadge
		p           *permit.Permit
	)
	err := r.txMgr.RunInTransaction(ctx, func(txCtx context.Context) error {
		old, err := r.badges.GetByID(txCtx, badgeID)
		if err != nil {
			return fmt.Errorf("failed to get badge: %w", err)
		}
		if old == nil {
			return errors.NewNotFoundError("badge not found")
		}
		if !old.IsActive() {
			return errors.NewInvalidStateError("badge is not active")
		}

		p, err = r.permits.GetByID(txCtx, old.PermitID())
		if err != nil {
			return fmt.Errorf("failed to get permit: %w", err)
		}
		if p == nil || p.Status() != vo.StatusActive {
			return errors.NewInvalidStateError("badge can only be reissued while the visitor is on site")
		}

		changed, err := r.deactivate(txCtx, old, reason)
		if err != nil {
			return err
		}
		if !changed {
			return errors.NewAlreadyProcessedError("badge was already deactivated")
		}

		replacement, err = r.Issue(txCtx, p)
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return replacement, p, nil
}

// ListForPermit returns every badge ever issued for a permit in issue order.
func (r *Registry) ListForPermit(ctx context.Context, permitID uint) ([]*badge.TemporaryBadge, error) {
	badges, err := r.badges.ListByPermitID(ctx, permitID)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	return badges, nil
}

// GetForPermit returns the active badge of a permit or nil.
func (r *Registry) GetForPermit(ctx context.Context, permitID uint) (*badge.TemporaryBadge, error) {
	b, err := r.badges.GetActiveByPermitID(ctx, permitID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up active badge: %w", err)
	}
	return b, nil
}
