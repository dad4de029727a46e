package service

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lawfirm-bo-api/internal/models"
)

func TestMetricsServiceSnapshot(t *testing.T) {
	svc := NewMetricsService()
	svc.ObserveHTTPRequest(http.MethodGet, "/api/approvals", 200, 20*time.Millisecond)
	svc.ObserveHTTPRequest(http.MethodGet, "/api/approvals", 200, 40*time.Millisecond)
	svc.RecordApprovalResolved(models.ApprovalStatusApproved)
	svc.RecordDispatchFailure()
	svc.RecordCacheOperation(true)
	svc.RecordCacheOperation(false)

	snapshot := svc.Snapshot()
	require.Equal(t, uint64(2), snapshot.RequestsTotal)
	require.InDelta(t, 30, snapshot.AverageRequestDurationMs, 0.01)
	require.Equal(t, uint64(1), snapshot.CacheHits)
	require.Equal(t, uint64(1), snapshot.CacheMisses)
	require.Equal(t, uint64(1), snapshot.DispatchFailures)
	require.True(t, snapshot.Goroutines > 0)
}

func TestMetricsServiceHandlerExposesCollectors(t *testing.T) {
	svc := NewMetricsService()
	svc.RecordApprovalResolved(models.ApprovalStatusRejected)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	svc.Handler().ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "approvals_resolved_total")
	require.Contains(t, w.Body.String(), "goroutines_total")
}

func TestMetricsServiceNilReceiverSafe(t *testing.T) {
	var svc *MetricsService
	svc.ObserveHTTPRequest(http.MethodGet, "/x", 200, time.Millisecond)
	svc.RecordDispatchFailure()
	svc.RecordCacheOperation(true)
	require.Equal(t, models.SystemMetrics{}, svc.Snapshot())

	w := httptest.NewRecorder()
	svc.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
}
