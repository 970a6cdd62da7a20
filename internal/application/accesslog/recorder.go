// Package accesslog records and queries the access audit trail.
package accesslog

import (
	"context"
	"fmt"

	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/shared/biztime"
	"github.com/orris-inc/permitgate/internal/shared/db"
	"github.com/orris-inc/permitgate/internal/shared/id"
	"github.com/orris-inc/permitgate/internal/shared/logger"
)

// EventObserver is told about every event that was committed.
type EventObserver interface {
	ObserveAccessEvent(eventType accesslog.EventType, outcome accesslog.Outcome)
}

type noopObserver struct{}

func (noopObserver) ObserveAccessEvent(accesslog.EventType, accesslog.Outcome) {}

// Entry describes an event to record. PermitID and PersonID may be nil.
type Entry struct {
	PermitID *uint
	PersonID *uint
	Type     accesslog.EventType
	Location string
	Outcome  accesslog.Outcome
	Remarks  string
	DeviceID string
}

type Recorder struct {
	repo     accesslog.Repository
	clock    biztime.Clock
	observer EventObserver
	logger   logger.Interface
}

func NewRecorder(repo accesslog.Repository, clock biztime.Clock, observer EventObserver, logger logger.Interface) *Recorder {
	if observer == nil {
		observer = noopObserver{}
	}
	if clock == nil {
		clock = biztime.SystemClock{}
	}
	return &Recorder{
		repo:     repo,
		clock:    clock,
		observer: observer,
		logger:   logger,
	}
}

// Record appends one event. Pass the transaction context when the event must
// commit or roll back with the state change it describes; the observer only
// hears about it after the commit.
func (r *Recorder) Record(ctx context.Context, entry Entry) (*accesslog.Event, error) {
	at := r.clock.Now()
	event, err := accesslog.NewEvent(
		id.NewEventID(at),
		entry.PermitID,
		entry.PersonID,
		entry.Type,
		entry.Location,
		entry.Outcome,
		at,
		entry.Remarks,
		entry.DeviceID,
	)
	if err != nil {
		return nil, fmt.Errorf("invalid access event: %w", err)
	}

	if err := r.repo.Append(ctx, event); err != nil {
		r.logger.Errorw("failed to append access event",
			"type", entry.Type,
			"outcome", entry.Outcome,
			"error", err,
		)
		return nil, err
	}

	db.AfterCommit(ctx, func() {
		r.observer.ObserveAccessEvent(event.Type(), event.Outcome())
	})
	return event, nil
}

// Ref turns an id into the nullable form events store. Zero becomes nil.
func Ref(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}
