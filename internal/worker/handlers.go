package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/socialchef/sous/internal/cache"
	apperrors "github.com/socialchef/sous/internal/errors"
	"github.com/socialchef/sous/internal/logger"
	"github.com/socialchef/sous/internal/metrics"
	"github.com/socialchef/sous/internal/services/ai"
	"github.com/socialchef/sous/internal/services/recipe"
)

// Generator produces a recipe for a request.
type Generator interface {
	Generate(ctx context.Context, req ai.Request) (*recipe.Result, error)
}

// DraftProcessor fills pending drafts from the generation queue.
type DraftProcessor struct {
	generator Generator
	drafts    cache.DraftStore
	metrics   *WorkerMetrics
}

func NewDraftProcessor(generator Generator, drafts cache.DraftStore, workerMetrics *WorkerMetrics) *DraftProcessor {
	return &DraftProcessor{
		generator: generator,
		drafts:    drafts,
		metrics:   workerMetrics,
	}
}

func (p *DraftProcessor) HandleGenerateRecipe(ctx context.Context, t *asynq.Task) error {
	start := time.Now()
	status := "failed"
	defer func() {
		p.metrics.RecordTask(ctx, t.Type(), status, time.Since(start))
	}()

	var payload GenerateRecipePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	log := slog.Default().With("draft_id", payload.DraftID, logger.WithTraceContext(ctx))

	draft, err := p.drafts.Get(ctx, payload.DraftID)
	if err != nil {
		return err
	}
	if draft == nil {
		log.Warn("Draft expired before generation")
		status = "skipped"
		return fmt.Errorf("draft %s not found: %w", payload.DraftID, asynq.SkipRetry)
	}
	if draft.Status != cache.DraftPending {
		log.Info("Draft already processed", "status", draft.Status)
		status = "skipped"
		return nil
	}

	log.Info("Generating draft")

	result, err := p.generator.Generate(ctx, draft.Request)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeValidation) {
			appErr, _ := apperrors.As(err)
			p.fail(ctx, draft, appErr.Message)
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		meta := readTaskMeta(ctx, t)
		if meta.lastAttempt(err) {
			p.fail(ctx, draft, "Failed to generate recipe")
		}
		log.Error("Draft generation failed", "error", err, "retry", meta.Retried)
		return err
	}

	draft.Complete(result)
	if err := p.drafts.Put(ctx, draft); err != nil {
		return err
	}
	metrics.DraftOperationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "complete")))

	status = "completed"
	log.Info("Draft completed", "source", result.Source)
	return nil
}

func (p *DraftProcessor) fail(ctx context.Context, draft *cache.Draft, msg string) {
	draft.Fail(msg)
	if err := p.drafts.Put(ctx, draft); err != nil {
		slog.ErrorContext(ctx, "Failed to mark draft failed", "draft_id", draft.ID, "error", err)
		return
	}
	metrics.DraftOperationsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", "fail")))
}
