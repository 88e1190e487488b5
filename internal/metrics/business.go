package metrics

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Instruments default to no-ops so packages can record before Init runs.
var (
	meter = otel.Meter("sous/business")

	// Generation pipeline metrics
	GenerationRequestsTotal metric.Int64Counter     = noop.Int64Counter{}
	GenerationDuration      metric.Float64Histogram = noop.Float64Histogram{}

	// Provider metrics
	ProviderCallsTotal    metric.Int64Counter     = noop.Int64Counter{}
	ProviderCallDuration  metric.Float64Histogram = noop.Float64Histogram{}
	ProviderFallbackTotal metric.Int64Counter     = noop.Int64Counter{}
	OfflineSynthesisTotal metric.Int64Counter     = noop.Int64Counter{}

	// Draft and recipe store metrics
	DraftOperationsTotal metric.Int64Counter = noop.Int64Counter{}
	RecipeWritesTotal    metric.Int64Counter = noop.Int64Counter{}

	// HTTP edge
	RateLimitedTotal metric.Int64Counter = noop.Int64Counter{}
)

func Init() error {
	var err error

	GenerationRequestsTotal, err = meter.Int64Counter(
		"recipe.generation.requests.total",
		metric.WithDescription("Total number of recipe generation requests by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	GenerationDuration, err = meter.Float64Histogram(
		"recipe.generation.duration",
		metric.WithDescription("End-to-end duration of the generation fallback chain"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30, 60),
	)
	if err != nil {
		return err
	}

	ProviderCallsTotal, err = meter.Int64Counter(
		"ai.provider.calls.total",
		metric.WithDescription("Total number of AI provider calls"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	ProviderCallDuration, err = meter.Float64Histogram(
		"ai.provider.duration",
		metric.WithDescription("Duration of AI provider calls"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(0.1, 0.5, 1, 2, 5, 10, 30),
	)
	if err != nil {
		return err
	}

	ProviderFallbackTotal, err = meter.Int64Counter(
		"provider.fallback.total",
		metric.WithDescription("Total number of provider fallback events"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	OfflineSynthesisTotal, err = meter.Int64Counter(
		"recipe.offline_synthesis.total",
		metric.WithDescription("Total number of locally synthesized fallback recipes"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	DraftOperationsTotal, err = meter.Int64Counter(
		"recipe.draft.operations.total",
		metric.WithDescription("Total number of draft store operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RecipeWritesTotal, err = meter.Int64Counter(
		"recipe.writes.total",
		metric.WithDescription("Total number of recipe create, update and delete operations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	RateLimitedTotal, err = meter.Int64Counter(
		"http.rate_limited.total",
		metric.WithDescription("Total number of requests rejected by the rate limiter"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return err
	}

	return nil
}
