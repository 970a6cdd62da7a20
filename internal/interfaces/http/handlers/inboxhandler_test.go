package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orris-inc/permitgate/internal/domain/notification"
	"github.com/orris-inc/permitgate/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/permitgate/internal/shared/errors"
)

type mockInboxService struct {
	recipient  uint
	unreadOnly bool
	markErr    error
}

func (m *mockInboxService) List(_ context.Context, recipientID uint, unreadOnly bool, page, pageSize int) ([]*notification.InboxItem, int64, error) {
	m.recipient = recipientID
	m.unreadOnly = unreadOnly
	return nil, 0, nil
}

func (m *mockInboxService) MarkRead(_ context.Context, itemID, recipientID uint) error {
	m.recipient = recipientID
	return m.markErr
}

func TestInboxHandler(t *testing.T) {
	svc := &mockInboxService{}
	h := NewInboxHandler(svc, testutil.NewMockLogger())

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/inbox", nil)
	testutil.SetQueryParams(c, map[string]string{"unread_only": "true"})
	testutil.SetActor(c, 20, "pic")
	h.List(c)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint(20), svc.recipient)
	assert.True(t, svc.unreadOnly)

	svc.markErr = errors.NewNotFoundError("notification not found")
	c, w = testutil.NewTestContext(http.MethodPost, "/api/v1/inbox/5/read", nil)
	testutil.SetURLParam(c, "id", "5")
	testutil.SetActor(c, 21, "pic")
	h.MarkRead(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, uint(21), svc.recipient)
}
