package accesslog

import (
	"fmt"
	"strings"
	"time"
)

type EventType string

const (
	EventCheckIn  EventType = "CHECK_IN"
	EventEntry    EventType = "ENTRY"
	EventExit     EventType = "EXIT"
	EventCheckOut EventType = "CHECK_OUT"
	EventDenied   EventType = "DENIED"
)

func (t EventType) IsValid() bool {
	switch t {
	case EventCheckIn, EventEntry, EventExit, EventCheckOut, EventDenied:
		return true
	}
	return false
}

type Outcome string

const (
	OutcomeSuccess      Outcome = "SUCCESS"
	OutcomeFailed       Outcome = "FAILED"
	OutcomeUnauthorized Outcome = "UNAUTHORIZED"
)

func (o Outcome) IsValid() bool {
	return o == OutcomeSuccess || o == OutcomeFailed || o == OutcomeUnauthorized
}

const maxRemarksLength = 500

// Event is one immutable entry of the access audit trail. Permit and person are
// absent when the presented credential could not be resolved.
type Event struct {
	id         string
	permitID   *uint
	personID   *uint
	eventType  EventType
	location   string
	outcome    Outcome
	occurredAt time.Time
	remarks    string
	deviceID   string
}

func NewEvent(
	eventID string,
	permitID, personID *uint,
	eventType EventType,
	location string,
	outcome Outcome,
	occurredAt time.Time,
	remarks, deviceID string,
) (*Event, error) {
	if eventID == "" {
		return nil, fmt.Errorf("event ID is required")
	}
	if !eventType.IsValid() {
		return nil, fmt.Errorf("invalid event type: %s", eventType)
	}
	if !outcome.IsValid() {
		return nil, fmt.Errorf("invalid outcome: %s", outcome)
	}
	if eventType == EventDenied && outcome == OutcomeSuccess {
		return nil, fmt.Errorf("a denied event cannot succeed")
	}
	if occurredAt.IsZero() {
		return nil, fmt.Errorf("occurred-at is required")
	}
	remarks = strings.TrimSpace(remarks)
	if len(remarks) > maxRemarksLength {
		remarks = remarks[:maxRemarksLength]
	}
	return &Event{
		id:         eventID,
		permitID:   permitID,
		personID:   personID,
		eventType:  eventType,
		location:   strings.TrimSpace(location),
		outcome:    outcome,
		occurredAt: occurredAt,
		remarks:    remarks,
		deviceID:   deviceID,
	}, nil
}

func (e *Event) ID() string            { return e.id }
func (e *Event) PermitID() *uint       { return e.permitID }
func (e *Event) PersonID() *uint       { return e.personID }
func (e *Event) Type() EventType       { return e.eventType }
func (e *Event) Location() string      { return e.location }
func (e *Event) Outcome() Outcome      { return e.outcome }
func (e *Event) OccurredAt() time.Time { return e.occurredAt }
func (e *Event) Remarks() string       { return e.remarks }
func (e *Event) DeviceID() string      { return e.deviceID }
