package metrics

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilManagerIsNoOp(t *testing.T) {
	var m *Manager

	// None of these may panic.
	m.ObserveGeneration("all", time.Second, 3)
	m.IncCacheHit()
	m.IncCacheMiss()
	m.RecordHTTP("GET", "/api/v1/insights", 200, time.Millisecond)
	assert.NotNil(t, m.Handler())
}

func TestScrapeExposesCounters(t *testing.T) {
	m := NewManager("insights")
	m.ObserveGeneration("employee_attrition", 120*time.Millisecond, 2)
	m.IncCacheHit()
	m.RecordHTTP("POST", "/api/v1/insights", 200, 5*time.Millisecond)

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	m.Handler().ServeHTTP(w, req)

	require.Equal(t, 200, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "insights_insight_generations_total")
	assert.Contains(t, body, "insights_insights_emitted_total")
	assert.Contains(t, body, "insights_insight_cache_hits_total")
	assert.Contains(t, body, "insights_http_requests_total")
}

func TestManagersUseIsolatedRegistries(t *testing.T) {
	a := NewManager("insights")
	b := NewManager("insights")
	a.IncCacheHit()

	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()
	b.Handler().ServeHTTP(w, req)

	assert.NotContains(t, w.Body.String(), "insights_insight_cache_hits_total 1")
}
