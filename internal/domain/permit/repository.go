package permit

import (
	"context"

	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
)

// QueryRepository is the read side of permit storage. Lookups return (nil, nil)
// when nothing matches.
type QueryRepository interface {
	GetByID(ctx context.Context, permitID uint) (*Permit, error)
	GetByNumber(ctx context.Context, number string) (*Permit, error)
	GetByAccessToken(ctx context.Context, token string) (*Permit, error)
	List(ctx context.Context, filter PermitFilter) ([]*Permit, int64, error)
	CountByStatus(ctx context.Context, status vo.PermitStatus) (int64, error)
}

// CommandRepository is the write side of permit storage.
type CommandRepository interface {
	Create(ctx context.Context, p *Permit) error
	// ConditionalUpdate writes p only if the stored row still holds
	// p.PersistedStatus() and p.PersistedVersion(). It reports whether the row
	// was written; false means another writer got there first.
	ConditionalUpdate(ctx context.Context, p *Permit) (bool, error)
}

type Repository interface {
	QueryRepository
	CommandRepository
}

type PermitFilter struct {
	Status    *vo.PermitStatus
	VisitorID *uint
	PicID     *uint
	Location  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
