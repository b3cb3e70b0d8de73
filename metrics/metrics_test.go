package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, c *Collector) string {
	t.Helper()
	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestNewCollector_DefaultNamespace(t *testing.T) {
	c := NewCollector("")
	require.NotNil(t, c.Registry())

	c.CommandResult("fetch_catalog", "ok")

	assert.Contains(t, scrape(t, c), `shopper_commands_total{command="fetch_catalog",outcome="ok"} 1`)
}

func TestCollector_Counts(t *testing.T) {
	c := NewCollector("test")

	c.CommandResult("submit_order", "ok")
	c.CommandResult("submit_order", "ok")
	c.CommandResult("submit_order", "error")
	c.TelemetryResult("sent")
	c.TelemetryResult("dropped")

	body := scrape(t, c)
	assert.Contains(t, body, `test_commands_total{command="submit_order",outcome="ok"} 2`)
	assert.Contains(t, body, `test_commands_total{command="submit_order",outcome="error"} 1`)
	assert.Contains(t, body, `test_telemetry_events_total{result="sent"} 1`)
	assert.Contains(t, body, `test_telemetry_events_total{result="dropped"} 1`)
	assert.NotContains(t, body, `result="failed"`)
}
