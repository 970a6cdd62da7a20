package accesslog

import (
	"context"
	"time"
)

// Repository is append-only: events are never updated or deleted.
type Repository interface {
	Append(ctx context.Context, e *Event) error
	List(ctx context.Context, filter EventFilter) ([]*Event, int64, error)
	CountByTypeAndOutcome(ctx context.Context, eventType EventType, outcome *Outcome, from, to time.Time) (int64, error)
}

// EventFilter narrows an event listing. Zero fields are ignored. Results are
// ordered by occurrence, newest first.
type EventFilter struct {
	PermitID *uint
	Location string
	Type     *EventType
	Outcome  *Outcome
	From     time.Time
	To       time.Time
	Page     int
	PageSize int
}
