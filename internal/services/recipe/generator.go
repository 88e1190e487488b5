package recipe

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/socialchef/sous/internal/errors"
	"github.com/socialchef/sous/internal/logger"
	"github.com/socialchef/sous/internal/metrics"
	"github.com/socialchef/sous/internal/services/ai"
	"github.com/socialchef/sous/internal/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const NoteOffline = "AI unavailable, returned fallback recipe."

// Source tells which link of the chain produced a recipe.
type Source string

const (
	SourcePrimary   Source = "primary"
	SourceSecondary Source = "secondary"
	SourceOffline   Source = "offline"
)

type Result struct {
	Recipe Draft
	Note   string
	Source Source
}

// Generator runs the primary → secondary → offline chain. It holds no
// per-request state and is shared by all requests.
type Generator struct {
	primary   Provider
	secondary Provider
}

// NewGenerator takes the configured providers; nil means the provider has
// no credential and is skipped.
func NewGenerator(primary, secondary Provider) *Generator {
	return &Generator{primary: primary, secondary: secondary}
}

// Generate returns a recipe for req. Only a validation error or a primary
// failure that is not quota-or-unavailable comes back as an error.
func (g *Generator) Generate(ctx context.Context, req ai.Request) (*Result, error) {
	ctx, span := telemetry.Tracer("recipe").Start(ctx, "recipe.Generate")
	defer span.End()

	startTime := time.Now()
	outcome := "failed"
	defer func() {
		attrs := metric.WithAttributes(attribute.String("outcome", outcome))
		metrics.GenerationRequestsTotal.Add(ctx, 1, attrs)
		metrics.GenerationDuration.Record(ctx, time.Since(startTime).Seconds(), attrs)
		span.SetAttributes(attribute.String("recipe.source", outcome))
	}()

	prompt, err := ai.BuildRecipePrompt(req)
	if err != nil {
		outcome = "invalid"
		return nil, err
	}

	var primaryErr error
	if g.primary != nil {
		draft, err := attempt(ctx, g.primary, prompt)
		if err == nil {
			outcome = string(SourcePrimary)
			return &Result{Recipe: *draft, Source: SourcePrimary}, nil
		}
		primaryErr = err
	}

	desc := Describe(primaryErr, g.primary != nil)
	if !IsQuotaOrUnavailable(desc) {
		span.RecordError(primaryErr)
		span.SetStatus(codes.Error, "generation failed")
		slog.ErrorContext(ctx, "Primary provider failed, not falling back",
			"provider", g.primary.Name(),
			"status", desc.StatusCode,
			"code", desc.Code,
			"error", primaryErr,
			logger.WithTraceContext(ctx))
		return nil, errors.NewGenerationError("Failed to generate recipe", "GENERATION_FAILED", primaryErr)
	}

	reason := desc.Reason()
	fromProvider := "none"
	if g.primary != nil {
		fromProvider = g.primary.Name()
	}
	slog.InfoContext(ctx, "Primary provider unavailable, using fallback chain",
		"provider", fromProvider,
		"reason", reason,
		"error", primaryErr,
		logger.WithTraceContext(ctx))

	if g.secondary != nil {
		recordFallback(ctx, fromProvider, g.secondary.Name(), reason)

		draft, err := attempt(ctx, g.secondary, prompt)
		if err == nil {
			outcome = string(SourceSecondary)
			return &Result{
				Recipe: *draft,
				Note:   fmt.Sprintf("Generated via %s fallback.", g.secondary.Name()),
				Source: SourceSecondary,
			}, nil
		}
		slog.WarnContext(ctx, "Secondary provider failed, synthesizing offline recipe",
			"provider", g.secondary.Name(),
			"error", err,
			logger.WithTraceContext(ctx))
		fromProvider = g.secondary.Name()
	}

	recordFallback(ctx, fromProvider, string(SourceOffline), reason)
	metrics.OfflineSynthesisTotal.Add(ctx, 1)
	outcome = string(SourceOffline)

	return &Result{
		Recipe: Synthesize(req.Prompt, req.Preferences),
		Note:   NoteOffline,
		Source: SourceOffline,
	}, nil
}

func attempt(ctx context.Context, p Provider, prompt ai.Prompt) (*Draft, error) {
	text, err := p.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return ParseDraft(text)
}

func recordFallback(ctx context.Context, from, to, reason string) {
	metrics.ProviderFallbackTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("from_provider", from),
		attribute.String("to_provider", to),
		attribute.String("reason", reason),
	))
}
