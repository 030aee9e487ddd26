package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	assert.NotNil(t, m.CanvasRequestsTotal)
	assert.NotNil(t, m.TurnsTotal)
	assert.NotNil(t, m.StoredTokens)
}

func TestRecordCanvasRequest(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordCanvasRequest("courses", "success", 0.2)
	m.RecordCanvasRequest("courses", "success", 0.4)
	m.RecordCanvasRequest("assignments", "unauthorized", 0.1)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.CanvasRequestsTotal.WithLabelValues("courses", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.CanvasRequestsTotal.WithLabelValues("assignments", "unauthorized")))
}

func TestRecordTurn(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.RecordTurn("list_courses", "success", 1.2)
	m.RecordTurn("list_assignments", "course_not_found", 0.3)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.TurnsTotal.WithLabelValues("list_courses", "success")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.TurnsTotal.WithLabelValues("list_assignments", "course_not_found")))
}

func TestStorageGauges(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)

	m.SetStoredTokens(5)
	m.SetStoredConversations(123)

	assert.Equal(t, float64(5), testutil.ToFloat64(m.StoredTokens))
	assert.Equal(t, float64(123), testutil.ToFloat64(m.StoredConversations))
}

func TestMetricsRegistered(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := New(registry)
	m.RecordLLMRequest("render", "success", 2.0)
	m.RecordRateLimiterDrop("chat")

	families, err := registry.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}
