package handlers

import (
	"context"

	accessDTO "github.com/orris-inc/permitgate/internal/application/access/dto"
	"github.com/orris-inc/permitgate/internal/application/access/usecases"
	appAccesslog "github.com/orris-inc/permitgate/internal/application/accesslog"
	"github.com/orris-inc/permitgate/internal/domain/accesslog"
)

// Use case interfaces for AccessHandler

type checkInUseCase interface {
	Execute(ctx context.Context, cmd usecases.CheckInCommand) (*usecases.CheckInResult, error)
}

type checkOutUseCase interface {
	Execute(ctx context.Context, cmd usecases.CheckOutCommand) (*usecases.CheckOutResult, error)
}

type doorAccessUseCase interface {
	Execute(ctx context.Context, cmd usecases.DoorAccessCommand) (*usecases.DoorAccessResult, error)
}

type reissueBadgeUseCase interface {
	Execute(ctx context.Context, cmd usecases.ReissueBadgeCommand) (*accessDTO.BadgeDTO, error)
}

type auditQueryService interface {
	ListEvents(ctx context.Context, filter accesslog.EventFilter) ([]*accesslog.Event, int64, error)
	DailySummary(ctx context.Context, date string) (*appAccesslog.DailySummary, error)
	CurrentlyCheckedIn(ctx context.Context, location string) ([]*appAccesslog.OnSiteVisitor, error)
}
