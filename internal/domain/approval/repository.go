package approval

import "context"

type QueryRepository interface {
	GetByPermitAndLevel(ctx context.Context, permitID uint, level Level) (*Record, error)
	ListByPermit(ctx context.Context, permitID uint) ([]*Record, error)
	ListPendingByApprover(ctx context.Context, approverID uint) ([]*Record, error)
	// CountPendingByApprover returns pending MANAGER_APPROVAL counts keyed by approver.
	CountPendingByApprover(ctx context.Context, level Level, approverIDs []uint) (map[uint]int64, error)
}

type CommandRepository interface {
	Create(ctx context.Context, r *Record) error
	// Resolve persists a decision only while the stored record is still PENDING.
	// It reports false when another decision was stored first.
	Resolve(ctx context.Context, r *Record) (bool, error)
}

type Repository interface {
	QueryRepository
	CommandRepository
}
