package metrics_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/AlgoRMind/algomind-be/internal/metrics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumOf(t *testing.T, m metricdata.Metrics) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok, "metric %s is not an int64 sum", m.Name)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}
	return total
}

func TestMetrics_RecordsDomainCounters(t *testing.T) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	previous := otel.GetMeterProvider()
	otel.SetMeterProvider(provider)
	t.Cleanup(func() { otel.SetMeterProvider(previous) })

	m, err := metrics.New("algomind-test", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)

	ctx := context.Background()
	m.RecordContribution(ctx, 90)
	m.RecordContribution(ctx, 5)
	m.RecordContributionRejected(ctx, "exceeds_goal")
	m.RecordUserRegistered(ctx)
	m.Database.RecordQuery(ctx, "select", "projects", 3*time.Millisecond, nil)
	m.Database.RecordQuery(ctx, "update", "projects", time.Millisecond, errors.New("deadlock"))
	m.Messaging.RecordPublish(ctx, "nats", "contributions.created", time.Millisecond, nil)
	m.Health.RecordDependencyCheck(ctx, "postgres", 2*time.Millisecond, nil)
	m.Health.RecordDependencyCheck(ctx, "nats", time.Millisecond, errors.New("connection refused"))

	got := collect(t, reader)

	assert.Equal(t, int64(2), sumOf(t, got["algomind.contributions.accepted"]))
	assert.Equal(t, int64(95), sumOf(t, got["algomind.contributions.amount"]))
	assert.Equal(t, int64(1), sumOf(t, got["algomind.contributions.rejected"]))
	assert.Equal(t, int64(1), sumOf(t, got["algomind.users.registered"]))
	assert.Equal(t, int64(1), sumOf(t, got["db.query.errors"]))
	assert.Equal(t, int64(1), sumOf(t, got["messaging.messages.published"]))
	assert.Contains(t, got, "db.query.duration")
	assert.Contains(t, got, "dependency.up")
	assert.Contains(t, got, "runtime.go.goroutines")
	assert.True(t, m.Health.Available("postgres"))
	assert.False(t, m.Health.Available("nats"))
}

func TestNewMock_IgnoresRecords(t *testing.T) {
	m := metrics.NewMock()
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordContribution(ctx, 10)
		m.RecordContributionRejected(ctx, "exceeds_goal")
		m.RecordProjectCreated(ctx)
		m.RecordSignInFailure(ctx)
		m.Database.RecordQuery(ctx, "insert", "users", time.Millisecond, nil)
		m.Messaging.RecordPublish(ctx, "kafka", "contributions", time.Millisecond, errors.New("x"))
		m.Health.RecordDependencyCheck(ctx, "postgres", time.Millisecond, nil)
	})

	var nilMetrics *metrics.Metrics
	assert.NotPanics(t, func() { nilMetrics.RecordUserRegistered(ctx) })
}
