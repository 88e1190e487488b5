package worker

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// WorkerMetrics counts draft generation tasks and how long they take.
type WorkerMetrics struct {
	tasks    metric.Int64Counter
	duration metric.Float64Histogram
}

func NewWorkerMetrics() (*WorkerMetrics, error) {
	return newWorkerMetrics(otel.Meter("sous/worker"))
}

func newWorkerMetrics(meter metric.Meter) (*WorkerMetrics, error) {
	tasks, err := meter.Int64Counter(
		"recipe.draft.tasks.total",
		metric.WithDescription("Draft generation tasks handled by the worker, by outcome"),
		metric.WithUnit("{task}"),
	)
	if err != nil {
		return nil, err
	}

	// Generation includes up to two provider calls, so buckets run long.
	duration, err := meter.Float64Histogram(
		"recipe.draft.task.duration",
		metric.WithDescription("Time spent generating a draft in the worker"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.5, 2, 5, 10, 30, 60, 120),
	)
	if err != nil {
		return nil, err
	}

	return &WorkerMetrics{tasks: tasks, duration: duration}, nil
}

// RecordTask is safe to call on a nil receiver.
func (m *WorkerMetrics) RecordTask(ctx context.Context, taskType, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	kind := attribute.String("task.type", taskType)
	m.tasks.Add(ctx, 1, metric.WithAttributes(kind, attribute.String("outcome", outcome)))
	m.duration.Record(ctx, elapsed.Seconds(), metric.WithAttributes(kind))
}
