package usecases

import (
	"context"

	accessDTO "github.com/orris-inc/permitgate/internal/application/access/dto"
	appAccesslog "github.com/orris-inc/permitgate/internal/application/accesslog"
	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/domain/badge"
	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
)

// AttemptLimiter counts failed check-in codes per permit and locks the permit
// out once a threshold is reached.
type AttemptLimiter interface {
	IsLocked(ctx context.Context, key string) (bool, error)
	RecordFailure(ctx context.Context, key string) (int, error)
	Reset(ctx context.Context, key string) error
}

type noopLimiter struct{}

func (noopLimiter) IsLocked(context.Context, string) (bool, error)     { return false, nil }
func (noopLimiter) RecordFailure(context.Context, string) (int, error) { return 0, nil }
func (noopLimiter) Reset(context.Context, string) error                { return nil }

type PermitTransitioner interface {
	Transition(ctx context.Context, p *permit.Permit, target vo.PermitStatus, actorID uint, reason string) error
}

type CodeVerifier interface {
	Verify(p *permit.Permit, code string) bool
}

type BadgeRegistry interface {
	Issue(ctx context.Context, p *permit.Permit) (*badge.TemporaryBadge, error)
	DeactivateForPermit(ctx context.Context, permitID uint, reason string) (*badge.TemporaryBadge, error)
	Lookup(ctx context.Context, rfidTag string) (*badge.TemporaryBadge, bool, error)
}

type EventRecorder interface {
	Record(ctx context.Context, entry appAccesslog.Entry) (*accesslog.Event, error)
}

type CheckInExecutor interface {
	Execute(ctx context.Context, cmd CheckInCommand) (*CheckInResult, error)
}

type CheckOutExecutor interface {
	Execute(ctx context.Context, cmd CheckOutCommand) (*CheckOutResult, error)
}

type DoorAccessExecutor interface {
	Execute(ctx context.Context, cmd DoorAccessCommand) (*DoorAccessResult, error)
}

type ReissueBadgeExecutor interface {
	Execute(ctx context.Context, cmd ReissueBadgeCommand) (*accessDTO.BadgeDTO, error)
}
