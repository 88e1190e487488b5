package worker

import (
	"context"

	"github.com/hibiken/asynq"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/socialchef/sous/internal/telemetry"
)

// OTelMiddleware runs each task attempt inside a consumer span named after
// the task type.
func OTelMiddleware(h asynq.Handler) asynq.Handler {
	tracer := telemetry.Tracer("sous/worker")

	return asynq.HandlerFunc(func(ctx context.Context, t *asynq.Task) error {
		meta := readTaskMeta(ctx, t)

		ctx, span := tracer.Start(ctx, "task "+t.Type(),
			trace.WithSpanKind(trace.SpanKindConsumer),
			trace.WithAttributes(
				attribute.String("messaging.system", "asynq"),
				attribute.String("messaging.destination.name", meta.Queue),
				attribute.String("messaging.message.id", meta.ID),
				attribute.String("draft.id", meta.DraftID),
				attribute.Int("task.retried", meta.Retried),
			),
		)
		defer span.End()

		err := h.ProcessTask(ctx, t)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.SetAttributes(attribute.Bool("task.final_attempt", meta.lastAttempt(err)))
		}
		return err
	})
}
