package approval

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 3, 2, 3, 0, 0, 0, time.UTC)

func TestNewRecord(t *testing.T) {
	r, err := NewRecord(5, LevelPICReview, 20, now)
	require.NoError(t, err)
	assert.True(t, r.IsPending())
	assert.Nil(t, r.ReviewedAt())

	_, err = NewRecord(5, Level("CEO"), 20, now)
	assert.Error(t, err)
	_, err = NewRecord(0, LevelPICReview, 20, now)
	assert.Error(t, err)
}

func TestResolve_IsFinal(t *testing.T) {
	r, err := NewRecord(5, LevelManagerApproval, 30, now)
	require.NoError(t, err)

	require.NoError(t, r.Resolve(true, 31, " looks fine ", now.Add(time.Minute)))
	assert.Equal(t, StatusApproved, r.Status())
	assert.Equal(t, uint(31), r.ApproverID())
	assert.Equal(t, "looks fine", r.Comments())
	require.NotNil(t, r.ReviewedAt())

	err = r.Resolve(false, 30, "changed my mind", now.Add(2*time.Minute))
	assert.ErrorIs(t, err, ErrAlreadyResolved)
	assert.Equal(t, StatusApproved, r.Status())
	assert.Equal(t, "looks fine", r.Comments())
}

func TestResolve_Rejection(t *testing.T) {
	r, err := NewRecord(5, LevelPICReview, 20, now)
	require.NoError(t, err)
	require.NoError(t, r.Resolve(false, 20, "no escort available", now))
	assert.Equal(t, StatusRejected, r.Status())
}

func TestResolve_CommentsTooLong(t *testing.T) {
	r, err := NewRecord(5, LevelPICReview, 20, now)
	require.NoError(t, err)
	err = r.Resolve(true, 20, strings.Repeat("a", 2001), now)
	assert.Error(t, err)
	assert.True(t, r.IsPending())
}
