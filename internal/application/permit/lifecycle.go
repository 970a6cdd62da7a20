// Package permit drives permit status changes and serves permit queries.
package permit

import (
	"context"
	stderrors "errors"

	"github.com/orris-inc/permitgate/internal/domain/permit"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/errors"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

// TransitionObserver is told about every committed status write.
type TransitionObserver interface {
	ObserveTransition(from, to vo.PermitStatus)
}

type noopTransitionObserver struct{}

func (noopTransitionObserver) ObserveTransition(vo.PermitStatus, vo.PermitStatus) {}

// Lifecycle is the only writer of permit status. Every write is conditional on
// the status and version the permit was loaded with, so two writers racing on
// the same permit cannot both succeed.
type Lifecycle struct {
	repo     permit.CommandRepository
	clock    biztime.Clock
	observer TransitionObserver
	logger   logger.Interface
}

func NewLifecycle(repo permit.CommandRepository, clock biztime.Clock, observer TransitionObserver, logger logger.Interface) *Lifecycle {
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	if observer == nil {
		observer = noopTransitionObserver{}
	}
	return &Lifecycle{
		repo:     repo,
		clock:    clock,
		observer: observer,
		logger:   logger,
	}
}

// Transition moves p to target and persists it. An edge the status graph does
// not allow fails with InvalidState. Losing a race to another writer fails with
// AlreadyProcessed when claiming ACTIVE and with InvalidState otherwise. p is
// left as it was loaded whenever the write does not happen.
func (l *Lifecycle) Transition(ctx context.Context, p *permit.Permit, target vo.PermitStatus, actorID uint, reason string) error {
	from := p.Status()
	before := p.Snapshot()
	if err := p.TransitionTo(target, l.clock.Now(), reason); err != nil {
		l.logger.Warnw("rejected permit transition",
			"permit_id", p.ID(),
			"from", from,
			"to", target,
			"actor_id", actorID,
			"error", err,
		)
		if stderrors.Is(err, permit.ErrInvalidTransition) {
			return errors.NewInvalidStateError("permit cannot move from " + from.String() + " to " + target.String())
		}
		return errors.NewInvalidStateError(err.Error())
	}

	if err := l.write(ctx, p); err != nil {
		p.Restore(before)
		if errors.Is(err, errors.ErrorTypeAlreadyProcessed) && target != vo.StatusActive {
			return errors.NewInvalidStateError("permit was changed by another request")
		}
		return err
	}

	l.observer.ObserveTransition(from, target)
	l.logger.Infow("permit transitioned",
		"permit_id", p.ID(),
		"number", p.Number(),
		"from", from,
		"to", target,
		"actor_id", actorID,
	)
	return nil
}

// Save persists changes that do not touch status, such as a replaced code,
// under the same conditional write.
func (l *Lifecycle) Save(ctx context.Context, p *permit.Permit) error {
	if p.Status() != p.PersistedStatus() {
		return errors.NewInternalError("status changes must go through Transition")
	}
	return l.write(ctx, p)
}

func (l *Lifecycle) write(ctx context.Context, p *permit.Permit) error {
	ok, err := l.repo.ConditionalUpdate(ctx, p)
	if err != nil {
		l.logger.Errorw("failed to persist permit", "permit_id", p.ID(), "error", err)
		return errors.NewInternalError("failed to update permit")
	}
	if !ok {
		l.logger.Warnw("permit write lost to a concurrent update",
			"permit_id", p.ID(),
			"expected_status", p.PersistedStatus(),
			"expected_version", p.PersistedVersion(),
		)
		return errors.NewAlreadyProcessedError("permit was already processed")
	}
	return nil
}
