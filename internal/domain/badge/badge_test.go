package badge

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var issued = time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC)

func newBadge(t *testing.T) *TemporaryBadge {
	t.Helper()
	b, err := NewTemporaryBadge(7, "TMP-0000012345", "RF-00AB12CD34EF", issued, issued.Add(4*time.Hour))
	require.NoError(t, err)
	return b
}

func TestNewTemporaryBadge_Validation(t *testing.T) {
	_, err := NewTemporaryBadge(7, "CARD-1", "RF-1", issued, issued.Add(time.Hour))
	assert.Error(t, err)
	_, err = NewTemporaryBadge(7, "TMP-1", "X-1", issued, issued.Add(time.Hour))
	assert.Error(t, err)
	_, err = NewTemporaryBadge(7, "TMP-1", "RF-1", issued, issued)
	assert.Error(t, err)
	_, err = NewTemporaryBadge(0, "TMP-1", "RF-1", issued, issued.Add(time.Hour))
	assert.Error(t, err)
}

func TestIsUsable(t *testing.T) {
	b := newBadge(t)
	assert.True(t, b.IsUsable(issued.Add(time.Hour)))
	assert.False(t, b.IsUsable(issued.Add(4*time.Hour)), "expiry instant is exclusive")
}

func TestDeactivate_Idempotent(t *testing.T) {
	b := newBadge(t)
	at := issued.Add(2 * time.Hour)

	assert.True(t, b.Deactivate("checked out", at))
	assert.False(t, b.IsActive())
	assert.Equal(t, at, *b.DeactivatedAt())

	assert.False(t, b.Deactivate("again", at.Add(time.Minute)))
	assert.Equal(t, "checked out", b.DeactivationReason())
	assert.Equal(t, at, *b.DeactivatedAt())
	assert.False(t, b.IsUsable(issued.Add(time.Hour)))
}
