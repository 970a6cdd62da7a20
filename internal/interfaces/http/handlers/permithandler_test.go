package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	approvalUsecases "github.com/orris-inc/permitgate/internal/application/approval/usecases"
	"github.com/orris-inc/permitgate/internal/application/permit/dto"
	permitUsecases "github.com/orris-inc/permitgate/internal/application/permit/usecases"
	"github.com/orris-inc/permitgate/internal/interfaces/http/handlers/testutil"
	"github.com/orris-inc/permitgate/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockSubmitPermitUC struct {
	fn func(ctx context.Context, cmd approvalUsecases.SubmitPermitCommand) (*dto.PermitDTO, error)
}

func (m *mockSubmitPermitUC) Execute(ctx context.Context, cmd approvalUsecases.SubmitPermitCommand) (*dto.PermitDTO, error) {
	return m.fn(ctx, cmd)
}

type mockGetPermitUC struct {
	fn func(ctx context.Context, query permitUsecases.GetPermitQuery) (*dto.PermitDTO, error)
}

func (m *mockGetPermitUC) Execute(ctx context.Context, query permitUsecases.GetPermitQuery) (*dto.PermitDTO, error) {
	return m.fn(ctx, query)
}

type mockListPermitsUC struct {
	lastQuery permitUsecases.ListPermitsQuery
}

func (m *mockListPermitsUC) Execute(ctx context.Context, query permitUsecases.ListPermitsQuery) (*permitUsecases.ListPermitsResult, error) {
	m.lastQuery = query
	return &permitUsecases.ListPermitsResult{Permits: []*dto.PermitDTO{}, Page: query.Page, PageSize: query.PageSize}, nil
}

type mockCancelPermitUC struct {
	fn func(ctx context.Context, cmd approvalUsecases.CancelPermitCommand) (*dto.PermitDTO, error)
}

func (m *mockCancelPermitUC) Execute(ctx context.Context, cmd approvalUsecases.CancelPermitCommand) (*dto.PermitDTO, error) {
	return m.fn(ctx, cmd)
}

type mockRegenerateCodeUC struct {
	fn func(ctx context.Context, cmd permitUsecases.RegenerateCodeCommand) (*permitUsecases.RegenerateCodeResult, error)
}

func (m *mockRegenerateCodeUC) Execute(ctx context.Context, cmd permitUsecases.RegenerateCodeCommand) (*permitUsecases.RegenerateCodeResult, error) {
	return m.fn(ctx, cmd)
}

type permitHandlerMocks struct {
	submit     *mockSubmitPermitUC
	get        *mockGetPermitUC
	list       *mockListPermitsUC
	cancel     *mockCancelPermitUC
	regenerate *mockRegenerateCodeUC
}

func newTestPermitHandler() (*PermitHandler, *permitHandlerMocks) {
	m := &permitHandlerMocks{
		submit:     &mockSubmitPermitUC{},
		get:        &mockGetPermitUC{},
		list:       &mockListPermitsUC{},
		cancel:     &mockCancelPermitUC{},
		regenerate: &mockRegenerateCodeUC{},
	}
	h := NewPermitHandler(m.submit, m.get, m.list, m.cancel, m.regenerate, testutil.NewMockLogger())
	return h, m
}

// =====================================================================
// Submit
// =====================================================================

func TestPermitHandler_Submit(t *testing.T) {
	start := time.Date(2026, 3, 2, 2, 0, 0, 0, time.UTC)

	t.Run("visitor comes from the actor", func(t *testing.T) {
		h, m := newTestPermitHandler()
		var got approvalUsecases.SubmitPermitCommand
		m.submit.fn = func(_ context.Context, cmd approvalUsecases.SubmitPermitCommand) (*dto.PermitDTO, error) {
			got = cmd
			return &dto.PermitDTO{ID: 7, Number: "VP-20260302-ABC123", Status: "PENDING_PIC"}, nil
		}

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/permits", map[string]interface{}{
			"pic_id":          20,
			"purpose":         "Rack installation",
			"visit_type":      "INSTALLATION",
			"location":        "DC2",
			"scheduled_start": start,
			"scheduled_end":   start.Add(2 * time.Hour),
			"equipment":       []string{"laptop"},
		})
		testutil.SetActor(c, 1, "visitor")

		h.Submit(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, uint(1), got.VisitorID)
		assert.Equal(t, uint(20), got.PicID)
		assert.True(t, start.Equal(got.ScheduledStart))
		assert.Equal(t, []string{"laptop"}, got.Equipment)

		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.True(t, resp.Success)
	})

	t.Run("missing fields", func(t *testing.T) {
		h, m := newTestPermitHandler()
		m.submit.fn = func(context.Context, approvalUsecases.SubmitPermitCommand) (*dto.PermitDTO, error) {
			t.Fatal("use case must not run")
			return nil, nil
		}

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/permits", map[string]interface{}{"purpose": "x"})
		testutil.SetActor(c, 1, "visitor")

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.Equal(t, "validation_error", resp.Error.Type)
	})

	t.Run("use case error is mapped", func(t *testing.T) {
		h, m := newTestPermitHandler()
		m.submit.fn = func(context.Context, approvalUsecases.SubmitPermitCommand) (*dto.PermitDTO, error) {
			return nil, errors.NewValidationError("scheduled end must be after start")
		}

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/permits", map[string]interface{}{
			"pic_id": 20, "purpose": "p", "visit_type": "AUDIT", "location": "DC2",
			"scheduled_start": start, "scheduled_end": start,
		})
		testutil.SetActor(c, 1, "visitor")

		h.Submit(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =====================================================================
// Get / List
// =====================================================================

func TestPermitHandler_Get(t *testing.T) {
	permit := &dto.PermitDTO{ID: 7, VisitorID: 1, PicID: 20}

	tests := []struct {
		name   string
		actor  uint
		roles  []string
		status int
	}{
		{"owner", 1, []string{"visitor"}, http.StatusOK},
		{"pic", 20, []string{"pic"}, http.StatusOK},
		{"security", 50, []string{"security"}, http.StatusOK},
		{"other visitor", 2, []string{"visitor"}, http.StatusNotFound},
		{"other pic", 21, []string{"pic"}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, m := newTestPermitHandler()
			m.get.fn = func(_ context.Context, q permitUsecases.GetPermitQuery) (*dto.PermitDTO, error) {
				assert.Equal(t, uint(7), q.PermitID)
				assert.Equal(t, tt.actor, q.ActorID)
				return permit, nil
			}

			c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/permits/7", nil)
			testutil.SetURLParam(c, "id", "7")
			testutil.SetActor(c, tt.actor, tt.roles...)

			h.Get(c)

			assert.Equal(t, tt.status, w.Code)
		})
	}

	t.Run("invalid id", func(t *testing.T) {
		h, _ := newTestPermitHandler()
		c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/permits/abc", nil)
		testutil.SetURLParam(c, "id", "abc")
		testutil.SetActor(c, 1, "visitor")

		h.Get(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not found passes through", func(t *testing.T) {
		h, m := newTestPermitHandler()
		m.get.fn = func(context.Context, permitUsecases.GetPermitQuery) (*dto.PermitDTO, error) {
			return nil, errors.NewNotFoundError("permit not found")
		}
		c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/permits/by-number/VP-X", nil)
		testutil.SetURLParam(c, "number", "VP-X")
		testutil.SetActor(c, 50, "security")

		h.GetByNumber(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestPermitHandler_List(t *testing.T) {
	t.Run("visitor is scoped to own permits", func(t *testing.T) {
		h, m := newTestPermitHandler()
		c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/permits", nil)
		testutil.SetQueryParams(c, map[string]string{"visitor_id": "9", "status": "APPROVED"})
		testutil.SetActor(c, 1, "visitor")

		h.List(c)

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, m.list.lastQuery.VisitorID)
		assert.Equal(t, uint(1), *m.list.lastQuery.VisitorID)
		assert.Nil(t, m.list.lastQuery.PicID)
		assert.Equal(t, "APPROVED", m.list.lastQuery.Status)
	})

	t.Run("pic sees the permits they host", func(t *testing.T) {
		h, m := newTestPermitHandler()
		c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/permits", nil)
		testutil.SetQueryParams(c, map[string]string{})
		testutil.SetActor(c, 20, "pic")

		h.List(c)

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, m.list.lastQuery.PicID)
		assert.Equal(t, uint(20), *m.list.lastQuery.PicID)
		assert.Nil(t, m.list.lastQuery.VisitorID)
	})

	t.Run("manager filters freely", func(t *testing.T) {
		h, m := newTestPermitHandler()
		c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/permits", nil)
		testutil.SetQueryParams(c, map[string]string{"visitor_id": "9", "location": "DC2", "page": "2", "page_size": "5"})
		testutil.SetActor(c, 30, "manager")

		h.List(c)

		require.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, m.list.lastQuery.VisitorID)
		assert.Equal(t, uint(9), *m.list.lastQuery.VisitorID)
		assert.Equal(t, "DC2", m.list.lastQuery.Location)
		assert.Equal(t, 2, m.list.lastQuery.Page)
		assert.Equal(t, 5, m.list.lastQuery.PageSize)

		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		var data map[string]interface{}
		require.NoError(t, json.Unmarshal(resp.Data, &data))
		assert.Equal(t, float64(2), data["page"])
	})

	t.Run("bad visitor_id", func(t *testing.T) {
		h, _ := newTestPermitHandler()
		c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/permits", nil)
		testutil.SetQueryParams(c, map[string]string{"visitor_id": "x"})
		testutil.SetActor(c, 30, "manager")

		h.List(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

// =====================================================================
// Cancel / RegenerateCode
// =====================================================================

func TestPermitHandler_Cancel(t *testing.T) {
	h, m := newTestPermitHandler()
	var got approvalUsecases.CancelPermitCommand
	m.cancel.fn = func(_ context.Context, cmd approvalUsecases.CancelPermitCommand) (*dto.PermitDTO, error) {
		got = cmd
		return &dto.PermitDTO{ID: cmd.PermitID, Status: "CANCELLED"}, nil
	}

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/permits/7/cancel", map[string]string{"reason": "trip moved"})
	testutil.SetURLParam(c, "id", "7")
	testutil.SetActor(c, 1, "visitor")

	h.Cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, approvalUsecases.CancelPermitCommand{PermitID: 7, ActorID: 1, Reason: "trip moved"}, got)

	t.Run("empty body", func(t *testing.T) {
		h, m := newTestPermitHandler()
		m.cancel.fn = func(_ context.Context, cmd approvalUsecases.CancelPermitCommand) (*dto.PermitDTO, error) {
			assert.Empty(t, cmd.Reason)
			return nil, errors.NewInvalidStateError("permit can no longer be cancelled")
		}
		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/permits/7/cancel", nil)
		testutil.SetURLParam(c, "id", "7")
		testutil.SetActor(c, 1, "visitor")

		h.Cancel(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestPermitHandler_RegenerateCode(t *testing.T) {
	h, m := newTestPermitHandler()
	expires := time.Date(2026, 3, 2, 1, 5, 0, 0, time.UTC)
	m.regenerate.fn = func(_ context.Context, cmd permitUsecases.RegenerateCodeCommand) (*permitUsecases.RegenerateCodeResult, error) {
		return &permitUsecases.RegenerateCodeResult{PermitID: cmd.PermitID, Code: "482913", ExpiresAt: expires}, nil
	}

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/permits/7/code", nil)
	testutil.SetURLParam(c, "id", "7")
	testutil.SetActor(c, 1, "visitor")

	h.RegenerateCode(c)

	require.Equal(t, http.StatusOK, w.Code)
	var resp testutil.APIResponse
	require.NoError(t, testutil.ParseResponse(w, &resp))
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(resp.Data, &data))
	assert.Equal(t, "482913", data["access_code"])
	assert.Equal(t, "2026-03-02T01:05:00Z", data["code_expires_at"])
}
