package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getGaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, g.Write(m))
	return m.GetGauge().GetValue()
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/moderate", "/api/moderate"},
		{"/api/audit", "/api/audit"},
		{"/api/offenders/user-123", "/api/offenders/:user"},
		{"/api/offenders/alice@example.com", "/api/offenders/:user"},
		{"/api/offenders", "/api/offenders"},
		{"/api/decisions/item-42", "/api/decisions/:id"},
		{"/api/config", "/api/config"},
		{"/healthz", "/healthz"},
		{"/metrics", "/metrics"},
		{"/", "/"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizePath(tt.path))
		})
	}
}

func TestSplitPath(t *testing.T) {
	assert.Equal(t, []string{"api", "offenders", "u1"}, splitPath("/api/offenders/u1"))
	assert.Equal(t, []string{"api"}, splitPath("/api/"))
	assert.Nil(t, splitPath("/"))
	assert.Nil(t, splitPath(""))
}

func TestCollect(t *testing.T) {
	collect(StatsSource{
		ReviewBacklogCount:     func() int { return 7 },
		RecentAuditRecordCount: func() int { return 42 },
	})
	assert.Equal(t, 7.0, getGaugeValue(t, ReviewBacklog))
	assert.Equal(t, 42.0, getGaugeValue(t, RecentAuditRecords))

	// Unavailable sources leave the previous value in place
	collect(StatsSource{
		ReviewBacklogCount:     func() int { return -1 },
		RecentAuditRecordCount: nil,
	})
	assert.Equal(t, 7.0, getGaugeValue(t, ReviewBacklog))
	assert.Equal(t, 42.0, getGaugeValue(t, RecentAuditRecords))
}
