package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

func TestRecordTask(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	m, err := newWorkerMetrics(mp.Meter("test"))
	require.NoError(t, err)
	m.RecordTask(ctx, TypeGenerateRecipe, "completed", 3*time.Second)
	m.RecordTask(ctx, TypeGenerateRecipe, "failed", time.Second)

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Len(t, rm.ScopeMetrics, 1)

	byName := map[string]metricdata.Metrics{}
	for _, md := range rm.ScopeMetrics[0].Metrics {
		byName[md.Name] = md
	}

	tasks, ok := byName["recipe.draft.tasks.total"].Data.(metricdata.Sum[int64])
	require.True(t, ok, "task counter missing")
	outcomes := map[string]int64{}
	for _, dp := range tasks.DataPoints {
		outcome, _ := dp.Attributes.Value(attribute.Key("outcome"))
		outcomes[outcome.AsString()] = dp.Value
	}
	assert.Equal(t, map[string]int64{"completed": 1, "failed": 1}, outcomes)

	duration, ok := byName["recipe.draft.task.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok, "duration histogram missing")
	require.Len(t, duration.DataPoints, 1)
	assert.Equal(t, uint64(2), duration.DataPoints[0].Count)
	assert.InDelta(t, 4.0, duration.DataPoints[0].Sum, 1e-9)
}

func TestRecordTask_NilReceiver(t *testing.T) {
	var m *WorkerMetrics
	m.RecordTask(context.Background(), TypeGenerateRecipe, "completed", time.Second)
}
