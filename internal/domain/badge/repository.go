package badge

import "context"

// Repository stores badges. Lookups return (nil, nil) when nothing matches.
type Repository interface {
	// Create inserts an active badge. The store rejects a second active badge
	// for the same permit and duplicate card numbers or RFID tags.
	Create(ctx context.Context, b *TemporaryBadge) error
	GetByID(ctx context.Context, badgeID uint) (*TemporaryBadge, error)
	GetByRFIDTag(ctx context.Context, rfidTag string) (*TemporaryBadge, error)
	GetActiveByPermitID(ctx context.Context, permitID uint) (*TemporaryBadge, error)
	ListByPermitID(ctx context.Context, permitID uint) ([]*TemporaryBadge, error)
	// Deactivate persists the deactivation if the badge is still active and
	// reports whether this call switched it off.
	Deactivate(ctx context.Context, b *TemporaryBadge) (bool, error)
}
