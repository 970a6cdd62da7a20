package accesslog

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var at = time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC)

func TestNewEvent(t *testing.T) {
	permitID := uint(4)
	e, err := NewEvent("01HZX", &permitID, nil, EventCheckIn, " DC1 ", OutcomeSuccess, at, "", "gate-1")
	require.NoError(t, err)
	assert.Equal(t, "DC1", e.Location())
	assert.Equal(t, uint(4), *e.PermitID())
	assert.Nil(t, e.PersonID())
}

func TestNewEvent_UnresolvedPermit(t *testing.T) {
	e, err := NewEvent("01HZY", nil, nil, EventDenied, "DC1", OutcomeFailed, at, "permit not found", "")
	require.NoError(t, err)
	assert.Nil(t, e.PermitID())
}

func TestNewEvent_Rejects(t *testing.T) {
	_, err := NewEvent("", nil, nil, EventEntry, "DC1", OutcomeSuccess, at, "", "")
	assert.Error(t, err)
	_, err = NewEvent("x", nil, nil, EventType("TAILGATE"), "DC1", OutcomeSuccess, at, "", "")
	assert.Error(t, err)
	_, err = NewEvent("x", nil, nil, EventDenied, "DC1", OutcomeSuccess, at, "", "")
	assert.Error(t, err)
	_, err = NewEvent("x", nil, nil, EventEntry, "DC1", OutcomeSuccess, time.Time{}, "", "")
	assert.Error(t, err)
}

func TestNewEvent_TruncatesRemarks(t *testing.T) {
	e, err := NewEvent("x", nil, nil, EventDenied, "DC1", OutcomeFailed, at, strings.Repeat("r", 600), "")
	require.NoError(t, err)
	assert.Len(t, e.Remarks(), 500)
}
