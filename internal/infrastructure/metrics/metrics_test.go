package metrics

import (
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orris-inc/permitgate/internal/domain/accesslog"
	"github.com/orris-inc/permitgate/internal/domain/notification"
	vo "github.com/orris-inc/permitgate/internal/domain/permit/valueobjects"
)

func TestMetrics_Counters(t *testing.T) {
	m := New()

	m.ObserveAccessEvent(accesslog.EventCheckIn, accesslog.OutcomeSuccess)
	m.ObserveAccessEvent(accesslog.EventDenied, accesslog.OutcomeFailed)
	m.ObserveAccessEvent(accesslog.EventDenied, accesslog.OutcomeFailed)
	m.ObserveTransition(vo.StatusApproved, vo.StatusActive)
	m.ObserveNotification(notification.KindPermitApproved, nil)
	m.ObserveNotification(notification.KindPermitApproved, errors.New("smtp down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.accessEvents.WithLabelValues("DENIED", "FAILED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.permitTransitions.WithLabelValues("APPROVED", "ACTIVE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("PERMIT_APPROVED", "failed")))
}

func TestMetrics_RequestStarted(t *testing.T) {
	m := New()

	done := m.RequestStarted()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpInFlight))
	done("POST", "/api/v1/access/check-in", 403)

	assert.Equal(t, 0.0, testutil.ToFloat64(m.httpInFlight))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("POST", "/api/v1/access/check-in", "403")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New()
	m.ObserveAccessEvent(accesslog.EventEntry, accesslog.OutcomeSuccess)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `permitgate_access_events_total{outcome="SUCCESS",type="ENTRY"} 1`)
}
