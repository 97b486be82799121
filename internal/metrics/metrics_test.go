package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReturnsSingleton(t *testing.T) {
	first := New()
	second := New()
	require.NotNil(t, first)
	assert.Same(t, first, second)
}

func TestObserveAttemptCounts(t *testing.T) {
	m := New()
	before := testutil.ToFloat64(m.ProviderAttemptsTotal.WithLabelValues("json", "test/model", "transient"))
	m.ObserveAttempt("json", "test/model", "transient", 0.5)
	after := testutil.ToFloat64(m.ProviderAttemptsTotal.WithLabelValues("json", "test/model", "transient"))
	assert.Equal(t, before+1, after)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.ObserveAttempt("text", "x", "accepted", 1)
	m.ObserveAnalysis("empty")
	m.ObservePlan("generated")
}
